// Package testhelpers builds spreadsheet fixtures for tests.
package testhelpers

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet of a fixture workbook. Rows include the header.
type Sheet struct {
	Name string
	Rows [][]any
}

// WriteWorkbook saves sheets to an xlsx file in a temp dir and returns its path.
func WriteWorkbook(t *testing.T, sheets ...Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("new sheet %q: %v", sheet.Name, err)
		}
		for i, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				t.Fatalf("set row %d of %q: %v", i+1, sheet.Name, err)
			}
		}
	}

	keepDefault := slices.ContainsFunc(sheets, func(s Sheet) bool { return s.Name == "Sheet1" })
	if len(sheets) > 0 && !keepDefault {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("delete default sheet: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "kpis.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// Package workbook reads xlsx spreadsheets through excelize.
package workbook

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/xuri/excelize/v2"
)

// ErrFileTooLarge is returned when the workbook exceeds the configured size.
var ErrFileTooLarge = errors.New("file too large")

// ErrSheetNotFound is returned by Rows for a sheet the workbook does not have.
var ErrSheetNotFound = errors.New("sheet not found")

// File is an open workbook.
type File struct {
	path string
	f    *excelize.File
}

// Open opens the workbook at path. maxSize of zero disables the size check.
func Open(path string, maxSize int64) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat workbook: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open workbook: %s is a directory", path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, info.Size(), maxSize)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	return &File{path: path, f: f}, nil
}

// Path returns the file the workbook was opened from.
func (w *File) Path() string {
	return w.path
}

// SheetNames lists sheets in workbook order.
func (w *File) SheetNames() []string {
	return w.f.GetSheetList()
}

// Rows returns every row of the sheet, header included, as raw cell text.
//
// Raw values are used so numbers come back as stored ("180000") instead of
// their display format ("180,000.00"). Trailing empty cells are omitted by
// excelize, so rows can be shorter than the sheet's column count.
func (w *File) Rows(sheet string) ([][]string, error) {
	if !slices.Contains(w.SheetNames(), sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// Close releases the workbook's temporary files.
func (w *File) Close() error {
	return w.f.Close()
}

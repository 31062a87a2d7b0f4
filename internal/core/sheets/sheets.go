// Package sheets declares the worksheet layouts the importer understands.
//
// Each layout is a [core.SheetDefinition]: which worksheet, which stored
// category and source tag, which column holds the date, and which metric each
// following column carries. Columns are bound by position; the header row in
// the workbook is for humans only.
package sheets

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/kpiimport/internal/config"
	"github.com/JonMunkholm/kpiimport/internal/core"
)

// Sources tag where the numbers originally came from.
const (
	SourceConsolidated = "consolidated"
	SourceMetricool    = "metricool"
	SourceCademi       = "cademi"
)

// dateColumn is the date column shared by every layout.
var dateColumn = column("A")

// NewRegistry returns a registry with all four sheet layouts, in the order
// they are imported. Constant entity ids and the company name table come
// from cfg.
func NewRegistry(cfg config.ImportConfig) (*core.Registry, error) {
	if len(cfg.Entities) == 0 {
		return nil, fmt.Errorf("no entities configured for %s", metricoolSheet)
	}

	resolver := core.NewEntityResolver(cfg.Entities)

	reg := core.NewRegistry()
	reg.Register(blueConsult(cfg.BlueConsultEntityID))
	reg.Register(tokenizaAcademy(cfg.AcademyEntityID))
	reg.Register(metricool(resolver))
	reg.Register(cademi(cfg.CademiEntityID))
	return reg, nil
}

// column converts a column letter to a zero-based index.
func column(name string) int {
	n, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		panic(err)
	}
	return n - 1
}

// fields lays out same-typed metrics in consecutive columns starting at first.
func fields(first string, t core.FieldType, group string, names ...string) []core.FieldSpec {
	start := column(first)
	specs := make([]core.FieldSpec, len(names))
	for i, name := range names {
		specs[i] = core.FieldSpec{Name: name, Group: group, Column: start + i, Type: t}
	}
	return specs
}

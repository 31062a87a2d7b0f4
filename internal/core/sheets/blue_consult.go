package sheets

import "github.com/JonMunkholm/kpiimport/internal/core"

func blueConsult(entityID int64) core.SheetDefinition {
	return core.SheetDefinition{
		Info: core.SheetInfo{
			Key:      "blue_consult",
			Name:     "Blue Consult",
			Category: "blue_consult_all",
			Source:   SourceConsolidated,
		},
		DateColumn: dateColumn,
		Entity:     core.ConstantEntity(entityID),
		Fields: []core.FieldSpec{
			{Name: "faturamento_mensal", Column: column("B"), Type: core.FieldDecimal},
			{Name: "novos_clientes", Column: column("C"), Type: core.FieldInteger},
			{Name: "clientes_implantacao", Column: column("D"), Type: core.FieldInteger},
			{Name: "taxa_conversao", Column: column("E"), Type: core.FieldDecimal},
			{Name: "receitas_nibo", Column: column("F"), Type: core.FieldDecimal},
			{Name: "despesas_nibo", Column: column("G"), Type: core.FieldDecimal},
			{Name: "saldo_nibo", Column: column("H"), Type: core.FieldDecimal},
		},
	}
}

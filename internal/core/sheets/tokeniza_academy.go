package sheets

import "github.com/JonMunkholm/kpiimport/internal/core"

// Community and course figures for the academy. Every metric is a count.
func tokenizaAcademy(entityID int64) core.SheetDefinition {
	return core.SheetDefinition{
		Info: core.SheetInfo{
			Key:      "tokeniza_academy",
			Name:     "Tokeniza Academy",
			Category: "tokeniza_academy_all",
			Source:   SourceConsolidated,
		},
		DateColumn: dateColumn,
		Entity:     core.ConstantEntity(entityID),
		Fields: fields("B", core.FieldInteger, "",
			"total_membros_discord",
			"membros_online",
			"novos_membros_7d",
			"novos_membros_30d",
			"total_alunos_cademi",
			"alunos_ativos",
			"total_cursos",
		),
	}
}

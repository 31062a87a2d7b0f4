package sheets

import "github.com/JonMunkholm/kpiimport/internal/core"

func cademi(entityID int64) core.SheetDefinition {
	specs := fields("B", core.FieldInteger, "",
		"total_alunos",
		"alunos_ativos",
		"alunos_inativos",
		"total_cursos",
	)
	specs = append(specs, core.FieldSpec{Name: "taxa_ativacao", Column: column("F"), Type: core.FieldDecimal})

	return core.SheetDefinition{
		Info: core.SheetInfo{
			Key:      "cademi",
			Name:     "Cademi Cursos",
			Category: "cademi_courses",
			Source:   SourceCademi,
		},
		DateColumn: dateColumn,
		Entity:     core.ConstantEntity(entityID),
		Fields:     specs,
	}
}

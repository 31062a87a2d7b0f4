package sheets

import "github.com/JonMunkholm/kpiimport/internal/core"

const metricoolSheet = "Redes Sociais"

// metricool covers several companies in one sheet; column B names the
// company of each row. Follower counts are stored nested per network.
func metricool(resolver *core.EntityResolver) core.SheetDefinition {
	specs := []core.FieldSpec{
		{Name: "total_posts", Column: column("C"), Type: core.FieldInteger},
		{Name: "total_interacoes", Column: column("D"), Type: core.FieldInteger},
		{Name: "engagement_medio", Column: column("E"), Type: core.FieldDecimal},
		{Name: "alcance_total", Column: column("F"), Type: core.FieldInteger},
		{Name: "impressoes_total", Column: column("G"), Type: core.FieldInteger},
	}
	specs = append(specs, fields("H", core.FieldInteger, "seguidores",
		"instagram",
		"facebook",
		"youtube",
		"twitter",
		"linkedin",
		"tiktok",
		"threads",
	)...)

	return core.SheetDefinition{
		Info: core.SheetInfo{
			Key:      "metricool_social",
			Name:     metricoolSheet,
			Category: "metricool_social",
			Source:   SourceMetricool,
		},
		DateColumn: dateColumn,
		Entity:     core.LookupEntity(column("B"), resolver),
		Fields:     specs,
	}
}

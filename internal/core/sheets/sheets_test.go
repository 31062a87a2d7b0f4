package sheets

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/kpiimport/internal/config"
	"github.com/JonMunkholm/kpiimport/internal/core"
)

func testConfig() config.ImportConfig {
	return config.ImportConfig{
		BlueConsultEntityID: 1,
		AcademyEntityID:     4,
		CademiEntityID:      4,
		Entities: map[string]int64{
			"Blue Consult":     1,
			"Tokeniza":         2,
			"Tokeniza Academy": 4,
			"Mychel Mendes":    30004,
		},
		MaxReportedErrors: 100,
	}
}

func mustDef(t *testing.T, key string) core.SheetDefinition {
	t.Helper()
	reg, err := NewRegistry(testConfig())
	require.NoError(t, err)
	def, ok := reg.Get(key)
	require.True(t, ok, "sheet %s not registered", key)
	return def
}

func collect(def core.SheetDefinition, rows [][]string) []core.RowOutcome {
	return slices.Collect(core.Parse(def, rows))
}

func TestNewRegistry_Order(t *testing.T) {
	reg, err := NewRegistry(testConfig())
	require.NoError(t, err)

	var names []string
	for _, def := range reg.All() {
		names = append(names, def.Info.Name)
	}
	assert.Equal(t, []string{"Blue Consult", "Tokeniza Academy", "Redes Sociais", "Cademi Cursos"}, names)
}

func TestNewRegistry_RequiresEntities(t *testing.T) {
	cfg := testConfig()
	cfg.Entities = nil

	_, err := NewRegistry(cfg)
	assert.Error(t, err)
}

func TestLayouts(t *testing.T) {
	tests := []struct {
		key      string
		category string
		source   string
		arity    int
		lastCol  int
	}{
		{key: "blue_consult", category: "blue_consult_all", source: "consolidated", arity: 7, lastCol: 7},
		{key: "tokeniza_academy", category: "tokeniza_academy_all", source: "consolidated", arity: 7, lastCol: 7},
		{key: "metricool_social", category: "metricool_social", source: "metricool", arity: 12, lastCol: 13},
		{key: "cademi", category: "cademi_courses", source: "cademi", arity: 5, lastCol: 5},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			def := mustDef(t, tt.key)
			assert.Equal(t, tt.category, def.Info.Category)
			assert.Equal(t, tt.source, def.Info.Source)
			assert.Equal(t, 0, def.DateColumn)
			require.Len(t, def.Fields, tt.arity)
			assert.Equal(t, tt.lastCol, def.Fields[len(def.Fields)-1].Column)
		})
	}
}

func TestBlueConsult_EndToEndRow(t *testing.T) {
	def := mustDef(t, "blue_consult")
	rows := [][]string{
		{"data", "faturamento", "novos", "implantacao", "conversao", "receitas", "despesas", "saldo"},
		{"2024-09-01", "180000.00", "12", "61", "89.8", "17800.00", "246300.00", "-228600.00"},
	}

	out := collect(def, rows)
	require.Len(t, out, 1)
	require.Equal(t, core.OutcomeRecord, out[0].Kind)

	snap := out[0].Snapshot
	assert.Equal(t, int64(1), snap.EntityID)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), snap.SnapshotDate)
	assert.Equal(t, "blue_consult_all", snap.Category)
	assert.Equal(t, "consolidated", snap.Source)
	assert.Equal(t, core.Payload{
		{Key: "faturamento_mensal", Value: 180000.0},
		{Key: "novos_clientes", Value: int64(12)},
		{Key: "clientes_implantacao", Value: int64(61)},
		{Key: "taxa_conversao", Value: 89.8},
		{Key: "receitas_nibo", Value: 17800.0},
		{Key: "despesas_nibo", Value: 246300.0},
		{Key: "saldo_nibo", Value: -228600.0},
	}, snap.Payload)

	data, err := json.Marshal(snap.Payload)
	require.NoError(t, err)
	assert.Equal(t,
		`{"faturamento_mensal":180000,"novos_clientes":12,"clientes_implantacao":61,"taxa_conversao":89.8,"receitas_nibo":17800,"despesas_nibo":246300,"saldo_nibo":-228600}`,
		string(data))
}

func TestMetricool_NestedFollowersAndLookup(t *testing.T) {
	def := mustDef(t, "metricool_social")
	rows := [][]string{
		{"data", "empresa"},
		{"2024-09-01", "Mychel Mendes", "30", "1200", "4.5", "50000", "80000", "15000", "3000", "", "120"},
	}

	out := collect(def, rows)
	require.Len(t, out, 1)
	require.Equal(t, core.OutcomeRecord, out[0].Kind)

	snap := out[0].Snapshot
	assert.Equal(t, int64(30004), snap.EntityID)
	assert.Equal(t, []string{"total_posts", "total_interacoes", "engagement_medio", "alcance_total", "impressoes_total", "seguidores"}, snap.Payload.Keys())

	v, ok := snap.Payload.Get("seguidores")
	require.True(t, ok)
	followers, ok := v.(core.Payload)
	require.True(t, ok)
	assert.Equal(t, core.Payload{
		{Key: "instagram", Value: int64(15000)},
		{Key: "facebook", Value: int64(3000)},
		{Key: "youtube", Value: int64(0)},
		{Key: "twitter", Value: int64(120)},
		{Key: "linkedin", Value: int64(0)},
		{Key: "tiktok", Value: int64(0)},
		{Key: "threads", Value: int64(0)},
	}, followers)
}

func TestMetricool_UnknownEntityDoesNotStopSheet(t *testing.T) {
	def := mustDef(t, "metricool_social")
	rows := [][]string{
		{"data", "empresa"},
		{"2024-09-01", "Acme Corp", "1"},
		{"2024-09-01", "", "1"},
		{"2024-09-01", "tokeniza", "1"},
		{"2024-09-01", " Tokeniza ", "1"},
	}

	out := collect(def, rows)
	require.Len(t, out, 4)

	for _, o := range out[:3] {
		require.Equal(t, core.OutcomeRejected, o.Kind, "row %d", o.Row)
		assert.True(t, errors.Is(o.Err, core.ErrUnknownEntity), "row %d: %v", o.Row, o.Err)
	}
	assert.Equal(t, "Acme Corp", out[0].Err.Value)

	assert.Equal(t, core.OutcomeRecord, out[3].Kind)
	assert.Equal(t, int64(2), out[3].Snapshot.EntityID)
}

func TestCademi_DefaultsAndConfiguredEntity(t *testing.T) {
	cfg := testConfig()
	cfg.CademiEntityID = 99
	reg, err := NewRegistry(cfg)
	require.NoError(t, err)
	def, _ := reg.Get("cademi")

	out := collect(def, [][]string{
		{"data"},
		{"2024-09-01", "500", "", "100"},
	})
	require.Len(t, out, 1)

	snap := out[0].Snapshot
	assert.Equal(t, int64(99), snap.EntityID)
	assert.Equal(t, core.Payload{
		{Key: "total_alunos", Value: int64(500)},
		{Key: "alunos_ativos", Value: int64(0)},
		{Key: "alunos_inativos", Value: int64(100)},
		{Key: "total_cursos", Value: int64(0)},
		{Key: "taxa_ativacao", Value: 0.0},
	}, snap.Payload)
}

func TestTokenizaAcademy_AllIntegers(t *testing.T) {
	def := mustDef(t, "tokeniza_academy")
	for _, f := range def.Fields {
		assert.Equal(t, core.FieldInteger, f.Type, f.Name)
	}

	out := collect(def, [][]string{
		{"data"},
		{"2024-09-01", "1500", "200", "12", "45", "800", "640", "9"},
		{"2024-10-01", "1500", "200.5"},
	})
	require.Len(t, out, 2)
	assert.Equal(t, core.OutcomeRecord, out[0].Kind)
	assert.Equal(t, int64(4), out[0].Snapshot.EntityID)

	require.Equal(t, core.OutcomeRejected, out[1].Kind)
	var ce *core.CoercionError
	require.True(t, errors.As(out[1].Err, &ce))
	assert.Equal(t, "membros_online", ce.Field)
	assert.Equal(t, "200.5", out[1].Err.Value)
}

package core

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDefinition is a small finance-style layout: A date, B revenue, C customers.
func testDefinition(key, name string, entityID int64) SheetDefinition {
	return SheetDefinition{
		Info:       SheetInfo{Key: key, Name: name, Category: key + "_all", Source: "test"},
		DateColumn: 0,
		Entity:     ConstantEntity(entityID),
		Fields: []FieldSpec{
			{Name: "revenue", Column: 1, Type: FieldDecimal},
			{Name: "customers", Column: 2, Type: FieldInteger},
		},
	}
}

// testSocialDefinition names the company in column B and nests follower counts.
func testSocialDefinition() SheetDefinition {
	return SheetDefinition{
		Info:       SheetInfo{Key: "social", Name: "Social", Category: "social", Source: "test"},
		DateColumn: 0,
		Entity:     LookupEntity(1, NewEntityResolver(defaultEntities())),
		Fields: []FieldSpec{
			{Name: "posts", Column: 2, Type: FieldInteger},
			{Name: "instagram", Group: "followers", Column: 3, Type: FieldInteger},
			{Name: "engagement", Column: 4, Type: FieldDecimal},
			{Name: "youtube", Group: "followers", Column: 5, Type: FieldInteger},
		},
	}
}

func TestParse_SkipsHeaderUnconditionally(t *testing.T) {
	def := testDefinition("finance", "Finance", 1)
	rows := [][]string{
		{"2024-01-01", "1", "1"}, // looks like data but is the header position
		{"2024-02-01", "2", "2"},
	}

	out := slices.Collect(Parse(def, rows))
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Row)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), out[0].Snapshot.SnapshotDate)
}

func TestParse_EmptyInput(t *testing.T) {
	def := testDefinition("finance", "Finance", 1)
	assert.Empty(t, slices.Collect(Parse(def, nil)))
	assert.Empty(t, slices.Collect(Parse(def, [][]string{{"data"}})))
}

func TestParse_TrailingBlankRowsAreSilent(t *testing.T) {
	def := testDefinition("finance", "Finance", 1)
	rows := [][]string{
		{"data", "revenue", "customers"},
		{"2024-09-01", "100", "1"},
		{"", "", ""},
		{},
		{"  "},
		{"", "0", "0"},
		{""},
		{" ", "5"},
	}

	out := slices.Collect(Parse(def, rows))
	require.Len(t, out, 7)
	assert.Equal(t, OutcomeRecord, out[0].Kind)
	for _, o := range out[1:] {
		assert.Equal(t, OutcomeSkipped, o.Kind, "row %d", o.Row)
		assert.Nil(t, o.Err)
	}
}

func TestParse_MalformedDateRejectsRow(t *testing.T) {
	def := testDefinition("finance", "Finance", 1)
	rows := [][]string{
		{"data"},
		{"2024/10/01", "100", "1"},
		{"2024-10-01", "100", "1"},
	}

	out := slices.Collect(Parse(def, rows))
	require.Len(t, out, 2)

	require.Equal(t, OutcomeRejected, out[0].Kind)
	assert.Equal(t, "Finance", out[0].Err.Sheet)
	assert.Equal(t, 2, out[0].Err.Row)
	assert.Equal(t, "2024/10/01", out[0].Err.Value)
	assert.False(t, errors.Is(out[0].Err, ErrMissingDate))

	var ce *CoercionError
	require.True(t, errors.As(out[0].Err, &ce))
	assert.Equal(t, FieldDate, ce.Type)
	assert.Equal(t, "data", ce.Field)

	assert.Equal(t, OutcomeRecord, out[1].Kind)
}

func TestParse_NumericDefaultsAndErrors(t *testing.T) {
	def := testDefinition("finance", "Finance", 3)
	rows := [][]string{
		{"data"},
		{"2024-09-01"},               // short row
		{"2024-09-01", "", "  "},     // blank cells
		{"2024-09-01", "abc", "1"},   // text in decimal column
		{"2024-09-01", "10", "1.5"},  // fractional integer
		{"2024-09-01", "1e2", "3.0"}, // spreadsheet-style numbers
	}

	out := slices.Collect(Parse(def, rows))
	require.Len(t, out, 5)

	zero := Payload{{Key: "revenue", Value: 0.0}, {Key: "customers", Value: int64(0)}}
	assert.Equal(t, zero, out[0].Snapshot.Payload)
	assert.Equal(t, zero, out[1].Snapshot.Payload)
	assert.Equal(t, int64(3), out[0].Snapshot.EntityID)

	require.Equal(t, OutcomeRejected, out[2].Kind)
	assert.Equal(t, "abc", out[2].Err.Value)
	var ce *CoercionError
	require.True(t, errors.As(out[2].Err, &ce))
	assert.Equal(t, "revenue", ce.Field)

	require.Equal(t, OutcomeRejected, out[3].Kind)
	assert.Equal(t, "1.5", out[3].Err.Value)

	require.Equal(t, OutcomeRecord, out[4].Kind)
	assert.Equal(t, Payload{{Key: "revenue", Value: 100.0}, {Key: "customers", Value: int64(3)}}, out[4].Snapshot.Payload)
}

func TestParse_GroupedFields(t *testing.T) {
	def := testSocialDefinition()
	rows := [][]string{
		{"data", "empresa"},
		{"2024-09-01", "Tokeniza", "30", "1500", "2.5", "40"},
	}

	out := slices.Collect(Parse(def, rows))
	require.Len(t, out, 1)
	require.Equal(t, OutcomeRecord, out[0].Kind)

	assert.Equal(t, Payload{
		{Key: "posts", Value: int64(30)},
		{Key: "followers", Value: Payload{
			{Key: "instagram", Value: int64(1500)},
			{Key: "youtube", Value: int64(40)},
		}},
		{Key: "engagement", Value: 2.5},
	}, out[0].Snapshot.Payload)
	assert.Equal(t, int64(2), out[0].Snapshot.EntityID)
}

func TestParse_GroupedFieldErrorNamesGroup(t *testing.T) {
	def := testSocialDefinition()
	rows := [][]string{
		{"data"},
		{"2024-09-01", "Tokeniza", "30", "many"},
	}

	out := slices.Collect(Parse(def, rows))
	require.Len(t, out, 1)
	var ce *CoercionError
	require.True(t, errors.As(out[0].Err, &ce))
	assert.Equal(t, "followers.instagram", ce.Field)
}

func TestParse_UnknownEntityThenValidRows(t *testing.T) {
	def := testSocialDefinition()
	rows := [][]string{
		{"data", "empresa"},
		{"2024-09-01", "Acme", "1"},
		{"2024-09-01", "Blue Consult", "2"},
		{"2024-09-01", "Mychel Mendes", "3"},
	}

	out := slices.Collect(Parse(def, rows))
	require.Len(t, out, 3)

	require.Equal(t, OutcomeRejected, out[0].Kind)
	assert.True(t, errors.Is(out[0].Err, ErrUnknownEntity))
	assert.Equal(t, "Acme", out[0].Err.Value)

	assert.Equal(t, int64(1), out[1].Snapshot.EntityID)
	assert.Equal(t, int64(30004), out[2].Snapshot.EntityID)
}

func TestParse_IsRestartable(t *testing.T) {
	def := testDefinition("finance", "Finance", 1)
	rows := [][]string{
		{"data"},
		{"2024-09-01", "1", "1"},
		{"bad", "1", "1"},
		{"2024-10-01", "2", "2"},
	}

	seq := Parse(def, rows)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestParse_StopsWhenConsumerBreaks(t *testing.T) {
	def := testDefinition("finance", "Finance", 1)
	rows := [][]string{
		{"data"},
		{"2024-09-01", "1", "1"},
		{"2024-10-01", "2", "2"},
		{"2024-11-01", "3", "3"},
	}

	n := 0
	for range Parse(def, rows) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

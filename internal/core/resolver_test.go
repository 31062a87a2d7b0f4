package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultEntities() map[string]int64 {
	return map[string]int64{
		"Blue Consult":     1,
		"Tokeniza":         2,
		"Tokeniza Academy": 4,
		"Mychel Mendes":    30004,
	}
}

func TestEntityResolver_Resolve(t *testing.T) {
	r := NewEntityResolver(defaultEntities())

	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "exact match", input: "Blue Consult", want: 1},
		{name: "large id", input: "Mychel Mendes", want: 30004},
		{name: "whitespace trimmed", input: "  Tokeniza Academy ", want: 4},
		{name: "case sensitive", input: "blue consult", wantErr: true},
		{name: "prefix is not a match", input: "Tokeniza Acad", wantErr: true},
		{name: "unknown", input: "Acme", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownEntity))
				assert.False(t, errors.Is(err, ErrInvalidValue), "unknown entity must not look like a coercion error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntityResolver_IsImmutable(t *testing.T) {
	ids := defaultEntities()
	r := NewEntityResolver(ids)

	ids["Acme"] = 99
	delete(ids, "Tokeniza")

	_, err := r.Resolve("Acme")
	assert.Error(t, err)
	id, err := r.Resolve("Tokeniza")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, 4, r.Len())
}

func TestEntityResolver_Names(t *testing.T) {
	r := NewEntityResolver(defaultEntities())
	assert.Equal(t, []string{"Blue Consult", "Mychel Mendes", "Tokeniza", "Tokeniza Academy"}, r.Names())
}

func TestUnknownEntityError_Message(t *testing.T) {
	assert.Equal(t, `unknown entity "Acme"`, (&UnknownEntityError{Name: "Acme"}).Error())
	assert.Equal(t, "unknown entity: empty name", (&UnknownEntityError{}).Error())
}

func TestEntityStrategies(t *testing.T) {
	row := []string{"2024-09-01", "Tokeniza"}

	id, raw, err := ConstantEntity(7).EntityFor(row)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Empty(t, raw)

	lookup := LookupEntity(1, NewEntityResolver(defaultEntities()))
	id, raw, err = lookup.EntityFor(row)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, "Tokeniza", raw)

	// Short rows read as a blank name.
	_, _, err = lookup.EntityFor([]string{"2024-09-01"})
	var ue *UnknownEntityError
	require.True(t, errors.As(err, &ue))
	assert.Empty(t, ue.Name)
}

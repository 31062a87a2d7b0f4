package core

import (
	"maps"
	"slices"
	"strings"
)

// EntityResolver maps company display names to their stable ids.
// The table is copied at construction and never changes afterwards.
type EntityResolver struct {
	ids map[string]int64
}

// NewEntityResolver builds a resolver from name to id. Names are trimmed;
// matching is otherwise exact and case-sensitive.
func NewEntityResolver(ids map[string]int64) *EntityResolver {
	r := &EntityResolver{ids: make(map[string]int64, len(ids))}
	for name, id := range ids {
		r.ids[strings.TrimSpace(name)] = id
	}
	return r
}

// Resolve returns the id for name, or an *UnknownEntityError.
// Unknown names are rejected, never guessed.
func (r *EntityResolver) Resolve(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &UnknownEntityError{}
	}
	id, ok := r.ids[name]
	if !ok {
		return 0, &UnknownEntityError{Name: name}
	}
	return id, nil
}

// Names returns the known names, sorted.
func (r *EntityResolver) Names() []string {
	return slices.Sorted(maps.Keys(r.ids))
}

// Len returns the number of known entities.
func (r *EntityResolver) Len() int {
	return len(r.ids)
}

// EntityStrategy decides which entity a data row belongs to.
type EntityStrategy interface {
	// EntityFor returns the entity id for row, and the raw cell that was
	// used, if any, for error reporting.
	EntityFor(row []string) (id int64, raw string, err error)
}

type constantEntity int64

// ConstantEntity assigns every row of a sheet to the same configured entity.
func ConstantEntity(id int64) EntityStrategy {
	return constantEntity(id)
}

func (c constantEntity) EntityFor([]string) (int64, string, error) {
	return int64(c), "", nil
}

type lookupEntity struct {
	column   int
	resolver *EntityResolver
}

// LookupEntity reads a company name from column and resolves it.
// A blank name is rejected the same way as an unknown one.
func LookupEntity(column int, resolver *EntityResolver) EntityStrategy {
	return lookupEntity{column: column, resolver: resolver}
}

func (l lookupEntity) EntityFor(row []string) (int64, string, error) {
	raw := cellAt(row, l.column)
	id, err := l.resolver.Resolve(CleanCell(raw))
	return id, raw, err
}

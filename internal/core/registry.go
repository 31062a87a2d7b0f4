package core

import (
	"fmt"
	"sync"
)

// Registry holds the sheet definitions known to an import run.
// Definitions are returned in registration order, which is also the order
// sheets are processed in.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]SheetDefinition
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]SheetDefinition)}
}

// Register adds a sheet definition to the registry.
// Panics if a sheet with the same key or worksheet name is already registered,
// or if the definition has no entity strategy.
func (r *Registry) Register(def SheetDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[def.Info.Key]; exists {
		panic(fmt.Sprintf("sheet already registered: %s", def.Info.Key))
	}
	for _, existing := range r.byKey {
		if existing.Info.Name == def.Info.Name {
			panic(fmt.Sprintf("worksheet already registered: %s", def.Info.Name))
		}
	}
	if def.Entity == nil {
		panic(fmt.Sprintf("sheet %s has no entity strategy", def.Info.Key))
	}

	r.byKey[def.Info.Key] = def
	r.order = append(r.order, def.Info.Key)
}

// Get returns a sheet definition by key.
// Returns false if not found.
func (r *Registry) Get(key string) (SheetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.byKey[key]
	return def, ok
}

// ByName returns the definition bound to the exact worksheet name.
func (r *Registry) ByName(name string) (SheetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, def := range r.byKey {
		if def.Info.Name == name {
			return def, true
		}
	}
	return SheetDefinition{}, false
}

// All returns all registered definitions in registration order.
func (r *Registry) All() []SheetDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SheetDefinition, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.byKey[key])
	}
	return result
}

// Count returns the number of registered sheets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

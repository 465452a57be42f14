package fabricate

import (
	"errors"
	"fmt"

	"github.com/leeforge/plugins/datafactory/shared"
)

// Registry binds entity-type names to blueprints. Insertion order is kept so
// configured precedence stays observable.
type Registry struct {
	order  []string
	byType map[string]shared.Blueprint
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]shared.Blueprint)}
}

// Add binds a blueprint to the entity type it claims. A second blueprint
// claiming an already-bound type is rejected with shared.ErrDuplicateBlueprint.
func (r *Registry) Add(b shared.Blueprint) error {
	if b == nil {
		return fmt.Errorf("add blueprint: blueprint is nil")
	}
	typ := b.EntityType()
	if typ == "" {
		return fmt.Errorf("add blueprint: %T has an empty entity type", b)
	}
	if _, exists := r.byType[typ]; exists {
		return fmt.Errorf("%w: %q", shared.ErrDuplicateBlueprint, typ)
	}
	r.byType[typ] = b
	r.order = append(r.order, typ)
	return nil
}

// Seed adds blueprints in configured order. A later blueprint claiming an
// already-bound entity type is skipped, so the first configured blueprint
// wins. The skipped type names are returned for the caller to log.
func (r *Registry) Seed(blueprints []shared.Blueprint) ([]string, error) {
	var skipped []string
	for i, b := range blueprints {
		err := r.Add(b)
		if err == nil {
			continue
		}
		if errors.Is(err, shared.ErrDuplicateBlueprint) {
			skipped = append(skipped, b.EntityType())
			continue
		}
		return skipped, fmt.Errorf("seed factories[%d]: %w", i, err)
	}
	return skipped, nil
}

// Lookup returns the blueprint bound to the entity type.
func (r *Registry) Lookup(entityType string) (shared.Blueprint, bool) {
	b, ok := r.byType[entityType]
	return b, ok
}

// Types returns the bound entity types in insertion order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports the number of bound blueprints.
func (r *Registry) Len() int { return len(r.byType) }

package factory

import (
	"context"
	"fmt"
	"sync"

	datafactory "github.com/leeforge/plugins/datafactory"
	"github.com/leeforge/plugins/datafactory/shared"
)

// MemoryEngine fabricates entities into an in-memory store. It speaks the
// legacy fabrication API and mainly serves suites that run without a
// database.
type MemoryEngine struct {
	mu     sync.Mutex
	booted bool
	store  map[string][]any
}

func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{store: make(map[string][]any)}
}

// BootWith prepares the store. The container argument is part of the legacy
// contract; this engine has no services to pull from it.
func (e *MemoryEngine) BootWith(container any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.booted = true
	return nil
}

// ResetSchema wipes everything stored during the suite. The kernel argument
// is part of the legacy contract; an in-memory store has no schema to drop.
func (e *MemoryEngine) ResetSchema(kernel any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = make(map[string][]any)
	return nil
}

// Make fabricates one entity and stores it.
func (e *MemoryEngine) Make(b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error) {
	entity, err := e.fabricate(b, attrs)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.store[b.EntityType()] = append(e.store[b.EntityType()], entity)
	e.mu.Unlock()
	return newProxy(b.EntityType(), entity), nil
}

// Build fabricates one entity without storing it.
func (e *MemoryEngine) Build(b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error) {
	entity, err := e.fabricate(b, attrs)
	if err != nil {
		return nil, err
	}
	return newProxy(b.EntityType(), entity), nil
}

// Stored reports how many entities of the given type the suite has created.
func (e *MemoryEngine) Stored(entityType string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.store[entityType])
}

func (e *MemoryEngine) fabricate(b shared.Blueprint, attrs shared.Attrs) (any, error) {
	e.mu.Lock()
	booted := e.booted
	e.mu.Unlock()
	if !booted {
		return nil, fmt.Errorf("memory engine: %w", shared.ErrNotBooted)
	}
	// The legacy contract predates context plumbing.
	entity, err := b.Fabricate(context.Background(), attrs)
	if err != nil {
		return nil, fmt.Errorf("fabricate %s: %w", b.EntityType(), err)
	}
	return entity, nil
}

var _ datafactory.LegacyEngine = (*MemoryEngine)(nil)

package factory

import (
	"context"
	"fmt"

	coreent "github.com/leeforge/core/server/ent"

	datafactory "github.com/leeforge/plugins/datafactory"
	"github.com/leeforge/plugins/datafactory/shared"
)

// EntEngine fabricates entities against an ent-backed database. It persists
// through the blueprint itself: blueprints that can save their entities
// implement shared.Persister.
type EntEngine struct {
	client *coreent.Client
}

func NewEntEngine(client *coreent.Client) *EntEngine {
	return &EntEngine{client: client}
}

// Boot verifies database connectivity.
func (e *EntEngine) Boot(ctx context.Context) error {
	if e.client == nil {
		return fmt.Errorf("ent engine: database client not initialized")
	}
	_, err := e.client.Tenant.Query().Limit(1).All(ctx)
	return err
}

// Create fabricates one entity and persists it.
func (e *EntEngine) Create(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error) {
	persister, ok := b.(shared.Persister)
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrNotPersistable, b.EntityType())
	}
	entity, err := b.Fabricate(ctx, attrs)
	if err != nil {
		return nil, fmt.Errorf("fabricate %s: %w", b.EntityType(), err)
	}
	saved, err := persister.Persist(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("persist %s: %w", b.EntityType(), err)
	}
	return newProxy(b.EntityType(), saved), nil
}

// CreateMany fabricates and persists count entities.
func (e *EntEngine) CreateMany(ctx context.Context, b shared.Blueprint, count int, attrs shared.Attrs) ([]shared.Proxy, error) {
	proxies := make([]shared.Proxy, 0, count)
	for i := 0; i < count; i++ {
		p, err := e.Create(ctx, b, attrs)
		if err != nil {
			return nil, fmt.Errorf("create %s %d of %d: %w", b.EntityType(), i+1, count, err)
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}

// Instance fabricates one entity without touching the database.
func (e *EntEngine) Instance(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (any, error) {
	entity, err := b.Fabricate(ctx, attrs)
	if err != nil {
		return nil, fmt.Errorf("fabricate %s: %w", b.EntityType(), err)
	}
	return entity, nil
}

var _ datafactory.Engine = (*EntEngine)(nil)

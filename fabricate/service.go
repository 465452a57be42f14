package fabricate

import (
	"context"
	"fmt"

	"github.com/leeforge/framework/plugin"

	"github.com/leeforge/core"

	"github.com/leeforge/plugins/datafactory/shared"
)

// Executor runs blueprints against one generation of the fabrication engine.
// The plugin supplies a dialect-specific implementation.
type Executor interface {
	Create(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error)
	CreateMany(ctx context.Context, b shared.Blueprint, count int, attrs shared.Attrs) ([]shared.Proxy, error)
	Instance(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (any, error)
}

// Service resolves blueprints and delegates fabrication to the executor.
type Service struct {
	registry *Registry
	exec     Executor
	events   plugin.EventBus
}

// NewService creates a new fabrication service.
func NewService(registry *Registry, exec Executor, events plugin.EventBus) *Service {
	return &Service{
		registry: registry,
		exec:     exec,
		events:   events,
	}
}

// Ping verifies the service is wired to an executor.
func (s *Service) Ping(context.Context) error {
	if s.exec == nil {
		return fmt.Errorf("fabrication executor not initialized")
	}
	return nil
}

// Have fabricates and persists one entity of the given type. The persisted
// proxy is unwrapped before the entity is returned.
func (s *Service) Have(ctx context.Context, entityType string, attrs shared.Attrs) (any, error) {
	b, err := s.resolve(entityType)
	if err != nil {
		return nil, err
	}
	p, err := s.exec.Create(ctx, b, attrs)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", entityType, err)
	}
	s.publishFabricated(ctx, entityType, 1, true)
	return p.Entity(), nil
}

// HaveMany fabricates and persists count entities, in creation order.
func (s *Service) HaveMany(ctx context.Context, entityType string, count int, attrs shared.Attrs) ([]any, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", shared.ErrInvalidCount, count)
	}
	b, err := s.resolve(entityType)
	if err != nil {
		return nil, err
	}
	proxies, err := s.exec.CreateMany(ctx, b, count, attrs)
	if err != nil {
		return nil, fmt.Errorf("create %d %s: %w", count, entityType, err)
	}
	entities := make([]any, len(proxies))
	for i, p := range proxies {
		entities[i] = p.Entity()
	}
	s.publishFabricated(ctx, entityType, len(entities), true)
	return entities, nil
}

// Make fabricates one transient entity; nothing is persisted.
func (s *Service) Make(ctx context.Context, entityType string, attrs shared.Attrs) (any, error) {
	b, err := s.resolve(entityType)
	if err != nil {
		return nil, err
	}
	entity, err := s.exec.Instance(ctx, b, attrs)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", entityType, err)
	}
	s.publishFabricated(ctx, entityType, 1, false)
	return entity, nil
}

// MakeMany fabricates count transient entities, in creation order.
func (s *Service) MakeMany(ctx context.Context, entityType string, count int, attrs shared.Attrs) ([]any, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", shared.ErrInvalidCount, count)
	}
	b, err := s.resolve(entityType)
	if err != nil {
		return nil, err
	}
	entities := make([]any, 0, count)
	for i := 0; i < count; i++ {
		entity, err := s.exec.Instance(ctx, b, attrs)
		if err != nil {
			return nil, fmt.Errorf("build %s %d of %d: %w", entityType, i+1, count, err)
		}
		entities = append(entities, entity)
	}
	s.publishFabricated(ctx, entityType, len(entities), false)
	return entities, nil
}

// --- private helpers ---

func (s *Service) resolve(entityType string) (shared.Blueprint, error) {
	b, ok := s.registry.Lookup(entityType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrBlueprintNotFound, entityType)
	}
	return b, nil
}

func (s *Service) publishFabricated(ctx context.Context, entityType string, count int, persisted bool) {
	if s.events == nil || count == 0 {
		return
	}
	actorID, _ := core.GetUserID(ctx)
	_ = s.events.Publish(ctx, plugin.Event{
		Name:   shared.EventFabricated,
		Source: "datafactory",
		Data: shared.FabricatedEventData{
			EntityType: entityType,
			Count:      count,
			Persisted:  persisted,
			ActorID:    actorID,
		},
	})
}

package datafactory

import (
	"context"

	"github.com/leeforge/plugins/datafactory/shared"
)

// Service keys the plugin resolves from the host registry.
const (
	// ServiceKeyEngine is where the host application registers its
	// fabrication engine before enabling the plugin.
	ServiceKeyEngine = "adapter.datafactory.engine"
	// ServiceKeyORM is where the required ORM-capable sibling plugin
	// exports its service.
	ServiceKeyORM = "orm.service"
)

// Engine is the suite-facing surface of current-generation fabrication
// engines. Suite cleanup is not part of it: current engines rely on the
// test-transaction rollback plugin for isolation.
type Engine interface {
	// Boot prepares the engine for a suite run.
	Boot(ctx context.Context) error
	// Create fabricates and persists one entity from the blueprint.
	Create(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error)
	// CreateMany fabricates and persists count entities, in order.
	CreateMany(ctx context.Context, b shared.Blueprint, count int, attrs shared.Attrs) ([]shared.Proxy, error)
	// Instance fabricates one transient entity; nothing is persisted.
	Instance(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (any, error)
}

// LegacyEngine is the pre-context engine surface of older library releases.
// Boot takes the host service container, transient objects come back proxied,
// and persisted suite state is wiped through an explicit schema reset against
// the application kernel.
type LegacyEngine interface {
	BootWith(container any) error
	ResetSchema(kernel any) error
	Make(b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error)
	Build(b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error)
}

// ORMModule is the contract of the required ORM-capable sibling plugin.
type ORMModule interface {
	// Cleanup reports the sibling's own cleanup configuration.
	Cleanup() bool
	// Kernel returns the application kernel handle schema resets run
	// against.
	Kernel() any
}

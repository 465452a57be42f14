package shared

import "context"

// FactoryAPI is the fabrication surface exposed to suites and other plugins.
// Consumers resolve it via: plugin.Resolve[FactoryAPI](services, "datafactory.service")
type FactoryAPI interface {
	// Have fabricates and persists one entity of the given type.
	Have(ctx context.Context, entityType string, attrs Attrs) (any, error)
	// HaveMany fabricates and persists count entities, in creation order.
	HaveMany(ctx context.Context, entityType string, count int, attrs Attrs) ([]any, error)
	// Make fabricates one transient entity; nothing is persisted.
	Make(ctx context.Context, entityType string, attrs Attrs) (any, error)
	// MakeMany fabricates count transient entities, in creation order.
	MakeMany(ctx context.Context, entityType string, count int, attrs Attrs) ([]any, error)
}

// SuiteLifecycle is the hook surface a test harness drives around each suite.
// Consumers resolve it via: plugin.Resolve[SuiteLifecycle](services, "datafactory.suite")
type SuiteLifecycle interface {
	// BeforeSuite binds the configured blueprints and boots the engine.
	BeforeSuite(ctx context.Context) error
	// AfterSuite wipes persisted suite state when cleanup is enabled.
	AfterSuite(ctx context.Context) error
	// Reconfigure prepares the plugin for suite re-entry, e.g. parallel
	// test groups sharing one process.
	Reconfigure(ctx context.Context) error
}

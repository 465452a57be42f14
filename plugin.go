package datafactory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leeforge/framework/logging"
	"github.com/leeforge/framework/plugin"

	"github.com/leeforge/plugins/datafactory/fabricate"
	"github.com/leeforge/plugins/datafactory/shared"
)

// Re-export shared types so suite code can import from this package.
type (
	Attrs          = shared.Attrs
	Blueprint      = shared.Blueprint
	Persister      = shared.Persister
	Proxy          = shared.Proxy
	FactoryAPI     = shared.FactoryAPI
	SuiteLifecycle = shared.SuiteLifecycle
)

// Re-export sentinel errors.
var (
	ErrORMModuleRequired  = shared.ErrORMModuleRequired
	ErrUnsupportedEngine  = shared.ErrUnsupportedEngine
	ErrNotBooted          = shared.ErrNotBooted
	ErrBlueprintNotFound  = shared.ErrBlueprintNotFound
	ErrDuplicateBlueprint = shared.ErrDuplicateBlueprint
	ErrNotPersistable     = shared.ErrNotPersistable
	ErrInvalidCount       = shared.ErrInvalidCount
)

// Re-export event constants.
const (
	EventBooted     = shared.EventBooted
	EventReset      = shared.EventReset
	EventFabricated = shared.EventFabricated
)

// Service keys the plugin registers.
const (
	serviceKeyFactory = "datafactory.service"
	serviceKeySuite   = "datafactory.suite"
)

// DataFactoryPlugin adapts a fabrication engine into the framework so suites
// can create persisted or transient entities on demand.
type DataFactoryPlugin struct {
	cfg       Config
	logger    logging.Logger
	events    plugin.EventBus
	container any

	orm      ORMModule
	run      runner
	registry *fabricate.Registry
	svc      *fabricate.Service
	seeded   bool
}

// New creates the plugin with the given configuration.
func New(cfg Config) *DataFactoryPlugin {
	return &DataFactoryPlugin{
		cfg:      cfg,
		registry: fabricate.NewRegistry(),
	}
}

func (p *DataFactoryPlugin) Name() string           { return "datafactory" }
func (p *DataFactoryPlugin) Version() string        { return "1.0.0" }
func (p *DataFactoryPlugin) Dependencies() []string { return []string{"orm"} }

func (p *DataFactoryPlugin) Enable(ctx context.Context, app *plugin.AppContext) error {
	if app == nil || app.Services == nil {
		return fmt.Errorf("plugin app context is incomplete")
	}

	if app.Logger == nil {
		p.logger = logging.FromZap(zap.NewNop())
	} else {
		p.logger = logging.FromZap(app.Logger)
	}
	p.events = app.Events
	p.container = app.Services

	if p.registry == nil {
		p.registry = fabricate.NewRegistry()
	}

	if err := p.cfg.Validate(); err != nil {
		return fmt.Errorf("validate datafactory config: %w", err)
	}

	orm, err := plugin.Resolve[ORMModule](app.Services, ServiceKeyORM)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrORMModuleRequired, err)
	}
	p.orm = orm

	raw, err := plugin.Resolve[any](app.Services, ServiceKeyEngine)
	if err != nil {
		return fmt.Errorf("resolve fabrication engine: %w", err)
	}
	run, err := newRunner(raw, p.container)
	if err != nil {
		return err
	}
	p.run = run

	p.svc = fabricate.NewService(p.registry, run, p.events)

	if err := app.Services.Register(serviceKeyFactory, FactoryAPI(p.svc)); err != nil {
		return fmt.Errorf("register factory service: %w", err)
	}
	if err := app.Services.Register(serviceKeySuite, SuiteLifecycle(p)); err != nil {
		return fmt.Errorf("register suite lifecycle: %w", err)
	}

	p.logger.Info("datafactory plugin enabled",
		zap.String("dialect", run.Dialect()),
		zap.Int("factories", len(p.cfg.Factories)),
		zap.Bool("ormCleanup", orm.Cleanup()),
	)
	return nil
}

// Install performs no first-run work; blueprints are configured per suite.
func (p *DataFactoryPlugin) Install(ctx context.Context, app *plugin.AppContext) error {
	return nil
}

// Disable performs cleanup on plugin shutdown.
func (p *DataFactoryPlugin) Disable(ctx context.Context, app *plugin.AppContext) error {
	p.logger.Info("datafactory plugin: shutting down")
	return nil
}

// BeforeSuite binds the configured blueprints and boots the engine. The host
// test harness runs it once per suite.
func (p *DataFactoryPlugin) BeforeSuite(ctx context.Context) error {
	if p.run == nil {
		return fmt.Errorf("datafactory plugin: not enabled")
	}
	if !p.seeded {
		skipped, err := p.registry.Seed(p.cfg.Factories)
		if err != nil {
			return fmt.Errorf("seed blueprint registry: %w", err)
		}
		for _, typ := range skipped {
			p.logger.Warn("datafactory: duplicate blueprint skipped; first configured blueprint wins",
				zap.String("entityType", typ),
			)
		}
		p.seeded = true
	}
	if err := p.run.Boot(ctx); err != nil {
		return err
	}
	p.publishSuiteEvent(ctx, shared.EventBooted)
	return nil
}

// AfterSuite wipes persisted suite state when cleanup is enabled. Only the
// legacy dialect resets anything: current engines defer to the
// test-transaction rollback plugin.
func (p *DataFactoryPlugin) AfterSuite(ctx context.Context) error {
	if p.run == nil {
		return fmt.Errorf("datafactory plugin: not enabled")
	}
	if !p.cfg.Cleanup {
		return nil
	}
	if p.run.Dialect() != DialectLegacy {
		p.logger.Debug("datafactory: cleanup delegated to the transaction-rollback plugin")
		return nil
	}
	if err := p.run.Reset(ctx, p.orm.Kernel()); err != nil {
		return err
	}
	p.publishSuiteEvent(ctx, shared.EventReset)
	return nil
}

// Reconfigure prepares suite re-entry, e.g. parallel test groups: wipe when
// the legacy dialect owns cleanup, then boot again.
func (p *DataFactoryPlugin) Reconfigure(ctx context.Context) error {
	if p.run == nil {
		return fmt.Errorf("datafactory plugin: not enabled")
	}
	if p.cfg.Cleanup && p.run.Dialect() == DialectLegacy {
		if err := p.run.Reset(ctx, p.orm.Kernel()); err != nil {
			return err
		}
		p.publishSuiteEvent(ctx, shared.EventReset)
	}
	return p.BeforeSuite(ctx)
}

// Register binds one more blueprint at runtime. A duplicate entity-type claim
// is rejected with ErrDuplicateBlueprint.
func (p *DataFactoryPlugin) Register(b shared.Blueprint) error {
	return p.registry.Add(b)
}

func (p *DataFactoryPlugin) HealthCheck(ctx context.Context) error {
	if p.svc == nil {
		return fmt.Errorf("datafactory plugin: fabrication service not initialized")
	}
	return p.svc.Ping(ctx)
}

func (p *DataFactoryPlugin) PluginOptions() plugin.PluginOptions {
	return plugin.PluginOptions{
		Description: "Suite data-factory plugin delegating entity fabrication to the registered engine",
	}
}

// RegisterModels reports the entity types the configured blueprints produce.
func (p *DataFactoryPlugin) RegisterModels() []any {
	seen := make(map[string]struct{}, len(p.cfg.Factories))
	models := make([]any, 0, len(p.cfg.Factories))
	for _, b := range p.cfg.Factories {
		if b == nil {
			continue
		}
		typ := b.EntityType()
		if typ == "" {
			continue
		}
		if _, ok := seen[typ]; ok {
			continue
		}
		seen[typ] = struct{}{}
		models = append(models, typ)
	}
	return models
}

func (p *DataFactoryPlugin) publishSuiteEvent(ctx context.Context, name string) {
	if p.events == nil {
		return
	}
	_ = p.events.Publish(ctx, plugin.Event{
		Name:   name,
		Source: "datafactory",
		Data: shared.SuiteEventData{
			Dialect:     p.run.Dialect(),
			EntityTypes: p.registry.Types(),
		},
	})
}

var (
	_ plugin.Plugin         = (*DataFactoryPlugin)(nil)
	_ plugin.Installable    = (*DataFactoryPlugin)(nil)
	_ plugin.Disableable    = (*DataFactoryPlugin)(nil)
	_ plugin.HealthReporter = (*DataFactoryPlugin)(nil)
	_ plugin.Configurable   = (*DataFactoryPlugin)(nil)
	_ plugin.ModelProvider  = (*DataFactoryPlugin)(nil)
	_ shared.SuiteLifecycle = (*DataFactoryPlugin)(nil)
	_ shared.FactoryAPI     = (*fabricate.Service)(nil)
	_ fabricate.Executor    = (*currentRunner)(nil)
	_ fabricate.Executor    = (*legacyRunner)(nil)
)

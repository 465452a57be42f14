package datafactory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leeforge/framework/plugin"

	"github.com/leeforge/plugins/datafactory/shared"
)

type stubBlueprint struct {
	typ string
}

func (b stubBlueprint) EntityType() string { return b.typ }

func (b stubBlueprint) Fabricate(context.Context, shared.Attrs) (any, error) {
	return b.typ + "-entity", nil
}

type stubProxy struct {
	typ    string
	entity any
}

func (p stubProxy) EntityType() string { return p.typ }
func (p stubProxy) Entity() any        { return p.entity }

// mockEngine speaks the current fabrication API.
type mockEngine struct {
	bootCalls int
	creates   int
	instances int
}

func (m *mockEngine) Boot(context.Context) error {
	m.bootCalls++
	return nil
}

func (m *mockEngine) Create(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error) {
	m.creates++
	entity, err := b.Fabricate(ctx, attrs)
	if err != nil {
		return nil, err
	}
	return stubProxy{typ: b.EntityType(), entity: entity}, nil
}

func (m *mockEngine) CreateMany(ctx context.Context, b shared.Blueprint, count int, attrs shared.Attrs) ([]shared.Proxy, error) {
	proxies := make([]shared.Proxy, 0, count)
	for i := 0; i < count; i++ {
		p, err := m.Create(ctx, b, attrs)
		if err != nil {
			return nil, err
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}

func (m *mockEngine) Instance(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (any, error) {
	m.instances++
	return b.Fabricate(ctx, attrs)
}

// mockLegacyEngine speaks the pre-context fabrication API.
type mockLegacyEngine struct {
	bootCalls  int
	containers []any
	resetCalls int
	kernels    []any
	makes      int
	builds     int
}

func (m *mockLegacyEngine) BootWith(container any) error {
	m.bootCalls++
	m.containers = append(m.containers, container)
	return nil
}

func (m *mockLegacyEngine) ResetSchema(kernel any) error {
	m.resetCalls++
	m.kernels = append(m.kernels, kernel)
	return nil
}

func (m *mockLegacyEngine) Make(b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error) {
	m.makes++
	entity, err := b.Fabricate(context.Background(), attrs)
	if err != nil {
		return nil, err
	}
	return stubProxy{typ: b.EntityType(), entity: entity}, nil
}

func (m *mockLegacyEngine) Build(b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error) {
	m.builds++
	entity, err := b.Fabricate(context.Background(), attrs)
	if err != nil {
		return nil, err
	}
	return stubProxy{typ: b.EntityType(), entity: entity}, nil
}

// dualEngine satisfies both generations at once.
type dualEngine struct {
	mockEngine
	mockLegacyEngine
}

type mockORM struct {
	cleanup bool
	kernel  any
}

func (m *mockORM) Cleanup() bool { return m.cleanup }
func (m *mockORM) Kernel() any   { return m.kernel }

type noopSub struct{}

func (noopSub) Unsubscribe() {}

type noopEvents struct{}

func (noopEvents) Publish(context.Context, plugin.Event) error { return nil }
func (noopEvents) Subscribe(string, plugin.EventHandler) plugin.Subscription {
	return noopSub{}
}
func (noopEvents) Close() error { return nil }

type recordingEvents struct {
	published []plugin.Event
}

func (r *recordingEvents) Publish(_ context.Context, e plugin.Event) error {
	r.published = append(r.published, e)
	return nil
}

func (r *recordingEvents) Subscribe(string, plugin.EventHandler) plugin.Subscription {
	return noopSub{}
}

func (r *recordingEvents) Close() error { return nil }

func enablePlugin(t *testing.T, cfg Config, engine any, orm ORMModule, events plugin.EventBus) *DataFactoryPlugin {
	t.Helper()

	sr := plugin.NewServiceRegistry()
	require.NoError(t, sr.Register(ServiceKeyORM, orm))
	require.NoError(t, sr.Register(ServiceKeyEngine, engine))

	p := New(cfg)
	require.NoError(t, p.Enable(context.Background(), &plugin.AppContext{
		Logger:   zap.NewNop(),
		Services: sr,
		Events:   events,
	}))
	return p
}

func TestPlugin_Enable_RegistersServices(t *testing.T) {
	sr := plugin.NewServiceRegistry()
	require.NoError(t, sr.Register(ServiceKeyORM, &mockORM{}))
	require.NoError(t, sr.Register(ServiceKeyEngine, &mockEngine{}))

	p := New(Config{Factories: []shared.Blueprint{stubBlueprint{typ: "tenant"}}})
	require.NoError(t, p.Enable(context.Background(), &plugin.AppContext{
		Logger:   zap.NewNop(),
		Services: sr,
		Events:   noopEvents{},
	}))

	require.True(t, sr.Has("datafactory.service"))
	require.True(t, sr.Has("datafactory.suite"))

	_, err := plugin.Resolve[shared.FactoryAPI](sr, "datafactory.service")
	require.NoError(t, err)
	_, err = plugin.Resolve[shared.SuiteLifecycle](sr, "datafactory.suite")
	require.NoError(t, err)
}

func TestPlugin_Enable_MissingORMModule(t *testing.T) {
	sr := plugin.NewServiceRegistry()
	require.NoError(t, sr.Register(ServiceKeyEngine, &mockEngine{}))

	err := New(Config{}).Enable(context.Background(), &plugin.AppContext{
		Logger:   zap.NewNop(),
		Services: sr,
		Events:   noopEvents{},
	})
	require.ErrorIs(t, err, shared.ErrORMModuleRequired)
	require.Contains(t, err.Error(), "orm.service")
}

func TestPlugin_Enable_MissingEngine(t *testing.T) {
	sr := plugin.NewServiceRegistry()
	require.NoError(t, sr.Register(ServiceKeyORM, &mockORM{}))

	err := New(Config{}).Enable(context.Background(), &plugin.AppContext{
		Logger:   zap.NewNop(),
		Services: sr,
		Events:   noopEvents{},
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, shared.ErrORMModuleRequired)
}

func TestPlugin_Enable_UnsupportedEngine(t *testing.T) {
	sr := plugin.NewServiceRegistry()
	require.NoError(t, sr.Register(ServiceKeyORM, &mockORM{}))
	require.NoError(t, sr.Register(ServiceKeyEngine, struct{ name string }{name: "bogus"}))

	err := New(Config{}).Enable(context.Background(), &plugin.AppContext{
		Logger:   zap.NewNop(),
		Services: sr,
		Events:   noopEvents{},
	})
	require.ErrorIs(t, err, shared.ErrUnsupportedEngine)
}

func TestPlugin_Enable_InvalidConfig(t *testing.T) {
	sr := plugin.NewServiceRegistry()
	require.NoError(t, sr.Register(ServiceKeyORM, &mockORM{}))
	require.NoError(t, sr.Register(ServiceKeyEngine, &mockEngine{}))

	err := New(Config{Factories: []shared.Blueprint{nil}}).Enable(context.Background(), &plugin.AppContext{
		Logger:   zap.NewNop(),
		Services: sr,
		Events:   noopEvents{},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "factories[0]")
}

func TestPlugin_Enable_PrefersCurrentDialect(t *testing.T) {
	engine := &dualEngine{}
	p := enablePlugin(t, Config{}, engine, &mockORM{}, noopEvents{})

	require.Equal(t, DialectCurrent, p.run.Dialect())

	require.NoError(t, p.BeforeSuite(context.Background()))
	require.Equal(t, 1, engine.mockEngine.bootCalls)
	require.Equal(t, 0, engine.mockLegacyEngine.bootCalls)
}

func TestPlugin_BeforeSuite_BootsEngineAndSeedsOnce(t *testing.T) {
	engine := &mockLegacyEngine{}
	events := &recordingEvents{}
	cfg := Config{Factories: []shared.Blueprint{
		stubBlueprint{typ: "tenant"},
		stubBlueprint{typ: "role"},
		stubBlueprint{typ: "tenant"},
	}}
	p := enablePlugin(t, cfg, engine, &mockORM{}, events)

	require.NoError(t, p.BeforeSuite(context.Background()))
	require.Equal(t, 1, engine.bootCalls)
	require.Equal(t, []string{"tenant", "role"}, p.registry.Types())

	require.Len(t, events.published, 1)
	require.Equal(t, EventBooted, events.published[0].Name)
	data, ok := events.published[0].Data.(shared.SuiteEventData)
	require.True(t, ok)
	require.Equal(t, DialectLegacy, data.Dialect)
	require.Equal(t, []string{"tenant", "role"}, data.EntityTypes)

	// Re-entry boots again but never re-seeds.
	require.NoError(t, p.BeforeSuite(context.Background()))
	require.Equal(t, 2, engine.bootCalls)
	require.Equal(t, []string{"tenant", "role"}, p.registry.Types())
}

func TestPlugin_BeforeSuite_NotEnabled(t *testing.T) {
	require.Error(t, New(Config{}).BeforeSuite(context.Background()))
}

func TestPlugin_AfterSuite_CleanupDisabled(t *testing.T) {
	engine := &mockLegacyEngine{}
	p := enablePlugin(t, Config{Cleanup: false}, engine, &mockORM{kernel: "kernel"}, noopEvents{})

	require.NoError(t, p.BeforeSuite(context.Background()))
	require.NoError(t, p.AfterSuite(context.Background()))
	require.Equal(t, 0, engine.resetCalls)
}

func TestPlugin_AfterSuite_LegacyResetsSchema(t *testing.T) {
	engine := &mockLegacyEngine{}
	events := &recordingEvents{}
	p := enablePlugin(t, Config{Cleanup: true}, engine, &mockORM{kernel: "kernel-handle"}, events)

	require.NoError(t, p.BeforeSuite(context.Background()))
	require.NoError(t, p.AfterSuite(context.Background()))

	require.Equal(t, 1, engine.resetCalls)
	require.Equal(t, []any{"kernel-handle"}, engine.kernels)

	last := events.published[len(events.published)-1]
	require.Equal(t, EventReset, last.Name)
}

func TestPlugin_AfterSuite_CurrentDelegatesCleanup(t *testing.T) {
	engine := &mockEngine{}
	events := &recordingEvents{}
	p := enablePlugin(t, Config{Cleanup: true}, engine, &mockORM{kernel: "kernel"}, events)

	require.NoError(t, p.BeforeSuite(context.Background()))
	require.NoError(t, p.AfterSuite(context.Background()))

	for _, e := range events.published {
		require.NotEqual(t, EventReset, e.Name)
	}
}

func TestPlugin_Reconfigure_LegacyResetsAndReboots(t *testing.T) {
	engine := &mockLegacyEngine{}
	p := enablePlugin(t, Config{Cleanup: true}, engine, &mockORM{kernel: "kernel"}, noopEvents{})

	require.NoError(t, p.BeforeSuite(context.Background()))
	require.NoError(t, p.Reconfigure(context.Background()))

	require.Equal(t, 1, engine.resetCalls)
	require.Equal(t, 2, engine.bootCalls)
}

func TestPlugin_Reconfigure_CleanupDisabledJustBoots(t *testing.T) {
	engine := &mockLegacyEngine{}
	p := enablePlugin(t, Config{Cleanup: false}, engine, &mockORM{kernel: "kernel"}, noopEvents{})

	require.NoError(t, p.BeforeSuite(context.Background()))
	require.NoError(t, p.Reconfigure(context.Background()))

	require.Equal(t, 0, engine.resetCalls)
	require.Equal(t, 2, engine.bootCalls)
}

func TestPlugin_Register_RejectsDuplicateType(t *testing.T) {
	p := New(Config{})
	require.NoError(t, p.Register(stubBlueprint{typ: "tenant"}))

	err := p.Register(stubBlueprint{typ: "tenant"})
	require.ErrorIs(t, err, shared.ErrDuplicateBlueprint)
}

func TestPlugin_RegisterModels_ListsConfiguredTypes(t *testing.T) {
	p := New(Config{Factories: []shared.Blueprint{
		stubBlueprint{typ: "tenant"},
		stubBlueprint{typ: "role"},
		stubBlueprint{typ: "tenant"},
	}})
	require.Equal(t, []any{"tenant", "role"}, p.RegisterModels())
}

func TestPlugin_HealthCheck_NotInitialized(t *testing.T) {
	require.Error(t, New(Config{}).HealthCheck(context.Background()))
}

func TestPlugin_HealthCheck_AfterEnable(t *testing.T) {
	p := enablePlugin(t, Config{}, &mockEngine{}, &mockORM{}, noopEvents{})
	require.NoError(t, p.HealthCheck(context.Background()))
}

func TestPlugin_FactoryAPI_RequiresBoot(t *testing.T) {
	p := enablePlugin(t, Config{Factories: []shared.Blueprint{stubBlueprint{typ: "tenant"}}},
		&mockEngine{}, &mockORM{}, noopEvents{})

	// Seed without booting so resolution succeeds but fabrication cannot.
	_, err := p.registry.Seed(p.cfg.Factories)
	require.NoError(t, err)

	_, err = p.svc.Have(context.Background(), "tenant", nil)
	require.ErrorIs(t, err, shared.ErrNotBooted)
}

func TestPlugin_FactoryAPI_FabricatesThroughEngine(t *testing.T) {
	engine := &mockLegacyEngine{}
	events := &recordingEvents{}
	p := enablePlugin(t, Config{Factories: []shared.Blueprint{stubBlueprint{typ: "tenant"}}},
		engine, &mockORM{}, events)
	require.NoError(t, p.BeforeSuite(context.Background()))

	entity, err := p.svc.Have(context.Background(), "tenant", nil)
	require.NoError(t, err)
	require.Equal(t, "tenant-entity", entity)
	require.Equal(t, 1, engine.makes)

	transient, err := p.svc.Make(context.Background(), "tenant", nil)
	require.NoError(t, err)
	require.Equal(t, "tenant-entity", transient)
	require.Equal(t, 1, engine.builds)

	last := events.published[len(events.published)-1]
	require.Equal(t, EventFabricated, last.Name)
	data, ok := last.Data.(shared.FabricatedEventData)
	require.True(t, ok)
	require.Equal(t, "tenant", data.EntityType)
	require.False(t, data.Persisted)
}

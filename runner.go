package datafactory

import (
	"context"
	"fmt"

	"github.com/leeforge/plugins/datafactory/shared"
)

// Dialect names for the two supported engine generations.
const (
	DialectCurrent = "current"
	DialectLegacy  = "legacy"
)

// runner adapts one engine generation to the execution contract the
// fabrication service consumes. The dialect is fixed at construction and
// never re-probed.
type runner interface {
	Dialect() string
	Boot(ctx context.Context) error
	Reset(ctx context.Context, kernel any) error
	Create(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error)
	CreateMany(ctx context.Context, b shared.Blueprint, count int, attrs shared.Attrs) ([]shared.Proxy, error)
	Instance(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (any, error)
}

// newRunner probes the registered engine for the generation it implements.
// An engine satisfying both surfaces is treated as current.
func newRunner(raw any, container any) (runner, error) {
	switch eng := raw.(type) {
	case Engine:
		return &currentRunner{engine: eng}, nil
	case LegacyEngine:
		return &legacyRunner{engine: eng, container: container}, nil
	default:
		return nil, fmt.Errorf("%w: got %T", shared.ErrUnsupportedEngine, raw)
	}
}

// --- current dialect ---

type currentRunner struct {
	engine Engine
	booted bool
}

func (r *currentRunner) Dialect() string { return DialectCurrent }

func (r *currentRunner) Boot(ctx context.Context) error {
	if err := r.engine.Boot(ctx); err != nil {
		return fmt.Errorf("boot engine: %w", err)
	}
	r.booted = true
	return nil
}

// Reset is a no-op: current engines leave suite cleanup to the
// test-transaction rollback plugin.
func (r *currentRunner) Reset(context.Context, any) error { return nil }

func (r *currentRunner) Create(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error) {
	if !r.booted {
		return nil, shared.ErrNotBooted
	}
	return r.engine.Create(ctx, b, attrs)
}

func (r *currentRunner) CreateMany(ctx context.Context, b shared.Blueprint, count int, attrs shared.Attrs) ([]shared.Proxy, error) {
	if !r.booted {
		return nil, shared.ErrNotBooted
	}
	return r.engine.CreateMany(ctx, b, count, attrs)
}

func (r *currentRunner) Instance(ctx context.Context, b shared.Blueprint, attrs shared.Attrs) (any, error) {
	if !r.booted {
		return nil, shared.ErrNotBooted
	}
	return r.engine.Instance(ctx, b, attrs)
}

// --- legacy dialect ---

type legacyRunner struct {
	engine    LegacyEngine
	container any
	booted    bool
}

func (r *legacyRunner) Dialect() string { return DialectLegacy }

func (r *legacyRunner) Boot(context.Context) error {
	if err := r.engine.BootWith(r.container); err != nil {
		return fmt.Errorf("boot legacy engine: %w", err)
	}
	r.booted = true
	return nil
}

func (r *legacyRunner) Reset(_ context.Context, kernel any) error {
	if err := r.engine.ResetSchema(kernel); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	return nil
}

func (r *legacyRunner) Create(_ context.Context, b shared.Blueprint, attrs shared.Attrs) (shared.Proxy, error) {
	if !r.booted {
		return nil, shared.ErrNotBooted
	}
	return r.engine.Make(b, attrs)
}

// CreateMany loops Make: the legacy API has no batch call.
func (r *legacyRunner) CreateMany(_ context.Context, b shared.Blueprint, count int, attrs shared.Attrs) ([]shared.Proxy, error) {
	if !r.booted {
		return nil, shared.ErrNotBooted
	}
	proxies := make([]shared.Proxy, 0, count)
	for i := 0; i < count; i++ {
		p, err := r.engine.Make(b, attrs)
		if err != nil {
			return nil, fmt.Errorf("make %d of %d: %w", i+1, count, err)
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}

// Instance unwraps the transient proxy legacy engines hand back.
func (r *legacyRunner) Instance(_ context.Context, b shared.Blueprint, attrs shared.Attrs) (any, error) {
	if !r.booted {
		return nil, shared.ErrNotBooted
	}
	p, err := r.engine.Build(b, attrs)
	if err != nil {
		return nil, err
	}
	return p.Entity(), nil
}

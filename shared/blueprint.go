package shared

import "context"

// Attrs carries attribute overrides for a single fabrication call. Keys and
// values are passed through to the blueprint untouched; the blueprint owns
// whatever validation applies.
type Attrs map[string]any

// Blueprint is the fabrication recipe for one entity type. Suite authors
// supply blueprints at setup time and the plugin binds each one to the entity
// type it claims.
type Blueprint interface {
	// EntityType names the entity this blueprint produces.
	EntityType() string
	// Fabricate builds one transient entity with the blueprint defaults
	// applied and attrs overriding them. It must not persist anything.
	Fabricate(ctx context.Context, attrs Attrs) (any, error)
}

// Persister is implemented by blueprints that know how to store what they
// fabricate. Engines without a backing store of their own require it for
// persisted creation.
type Persister interface {
	Persist(ctx context.Context, entity any) (any, error)
}

// Proxy wraps a created entity. Engines hand proxies back; the plugin unwraps
// them before returning entities to suite code.
type Proxy interface {
	EntityType() string
	Entity() any
}

package factory

import "github.com/leeforge/plugins/datafactory/shared"

// entityProxy wraps a fabricated entity with the type name its blueprint
// claims, so callers can unwrap without caring which engine produced it.
type entityProxy struct {
	entityType string
	entity     any
}

func newProxy(entityType string, entity any) shared.Proxy {
	return &entityProxy{entityType: entityType, entity: entity}
}

func (p *entityProxy) EntityType() string { return p.entityType }
func (p *entityProxy) Entity() any        { return p.entity }

var _ shared.Proxy = (*entityProxy)(nil)

package factory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	coreent "github.com/leeforge/core/server/ent"
	entTenant "github.com/leeforge/core/server/ent/tenant"

	"github.com/leeforge/plugins/datafactory/shared"
)

// Blueprints for the core entities suites fabricate most. Each fabricates a
// plain record with generated defaults, applies attribute overrides, and
// persists through the ent client it was constructed with.
//
// Overrides use camelCase attribute keys; an unknown key is an error rather
// than a silent no-op.

// TenantRecord is the transient shape of a fabricated tenant.
type TenantRecord struct {
	Code        string
	Name        string
	Description string
	Status      string
}

// TenantBlueprint fabricates tenants. A nil client still fabricates
// transient records but cannot persist.
type TenantBlueprint struct {
	client *coreent.Client
}

func NewTenantBlueprint(client *coreent.Client) *TenantBlueprint {
	return &TenantBlueprint{client: client}
}

func (b *TenantBlueprint) EntityType() string { return "tenant" }

func (b *TenantBlueprint) Fabricate(_ context.Context, attrs shared.Attrs) (any, error) {
	suffix := shortID()
	rec := &TenantRecord{
		Code: "tenant-" + suffix,
		Name: "Tenant " + suffix,
	}
	for key, raw := range attrs {
		switch key {
		case "code":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("tenant blueprint: %w", err)
			}
			rec.Code = v
		case "name":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("tenant blueprint: %w", err)
			}
			rec.Name = v
		case "description":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("tenant blueprint: %w", err)
			}
			rec.Description = v
		case "status":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("tenant blueprint: %w", err)
			}
			rec.Status = v
		default:
			return nil, fmt.Errorf("tenant blueprint: unknown attribute %q", key)
		}
	}
	return rec, nil
}

func (b *TenantBlueprint) Persist(ctx context.Context, entity any) (any, error) {
	rec, ok := entity.(*TenantRecord)
	if !ok {
		return nil, fmt.Errorf("tenant blueprint: expected *TenantRecord, got %T", entity)
	}
	if b.client == nil {
		return nil, fmt.Errorf("tenant blueprint: database client not initialized")
	}
	builder := b.client.Tenant.Create().
		SetCode(rec.Code).
		SetName(rec.Name)
	if rec.Description != "" {
		builder.SetDescription(rec.Description)
	}
	if rec.Status != "" {
		builder.SetStatus(entTenant.Status(rec.Status))
	}
	return builder.Save(ctx)
}

// RoleRecord is the transient shape of a fabricated role.
type RoleRecord struct {
	OwnerDomainID uuid.UUID
	Name          string
	Code          string
	IsSystem      bool
	Permissions   []string
}

// RoleBlueprint fabricates roles scoped to an owning domain.
type RoleBlueprint struct {
	client *coreent.Client
}

func NewRoleBlueprint(client *coreent.Client) *RoleBlueprint {
	return &RoleBlueprint{client: client}
}

func (b *RoleBlueprint) EntityType() string { return "role" }

func (b *RoleBlueprint) Fabricate(_ context.Context, attrs shared.Attrs) (any, error) {
	suffix := shortID()
	rec := &RoleRecord{
		Name:        "Role " + suffix,
		Code:        "role-" + suffix,
		Permissions: []string{},
	}
	for key, raw := range attrs {
		switch key {
		case "ownerDomainId":
			v, err := uuidAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("role blueprint: %w", err)
			}
			rec.OwnerDomainID = v
		case "name":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("role blueprint: %w", err)
			}
			rec.Name = v
		case "code":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("role blueprint: %w", err)
			}
			rec.Code = v
		case "isSystem":
			v, ok := raw.(bool)
			if !ok {
				return nil, fmt.Errorf("role blueprint: attribute %q: expected bool, got %T", key, raw)
			}
			rec.IsSystem = v
		case "permissions":
			v, err := stringsAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("role blueprint: %w", err)
			}
			rec.Permissions = v
		default:
			return nil, fmt.Errorf("role blueprint: unknown attribute %q", key)
		}
	}
	return rec, nil
}

func (b *RoleBlueprint) Persist(ctx context.Context, entity any) (any, error) {
	rec, ok := entity.(*RoleRecord)
	if !ok {
		return nil, fmt.Errorf("role blueprint: expected *RoleRecord, got %T", entity)
	}
	if rec.OwnerDomainID == uuid.Nil {
		return nil, fmt.Errorf("role blueprint: ownerDomainId attribute is required")
	}
	if b.client == nil {
		return nil, fmt.Errorf("role blueprint: database client not initialized")
	}
	return b.client.Role.Create().
		SetOwnerDomainID(rec.OwnerDomainID).
		SetName(rec.Name).
		SetCode(rec.Code).
		SetIsSystem(rec.IsSystem).
		SetPermissions(rec.Permissions).
		Save(ctx)
}

// OrganizationRecord is the transient shape of a fabricated organization.
type OrganizationRecord struct {
	DomainID uuid.UUID
	ParentID *uuid.UUID
	Code     string
	Name     string
	Path     string
}

// OrganizationBlueprint fabricates organization units. Path defaults to the
// code; suites nesting units override "path" themselves.
type OrganizationBlueprint struct {
	client *coreent.Client
}

func NewOrganizationBlueprint(client *coreent.Client) *OrganizationBlueprint {
	return &OrganizationBlueprint{client: client}
}

func (b *OrganizationBlueprint) EntityType() string { return "organization" }

func (b *OrganizationBlueprint) Fabricate(_ context.Context, attrs shared.Attrs) (any, error) {
	suffix := shortID()
	rec := &OrganizationRecord{
		Code: "org-" + suffix,
		Name: "Organization " + suffix,
	}
	for key, raw := range attrs {
		switch key {
		case "domainId":
			v, err := uuidAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("organization blueprint: %w", err)
			}
			rec.DomainID = v
		case "parentId":
			v, err := uuidAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("organization blueprint: %w", err)
			}
			rec.ParentID = &v
		case "code":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("organization blueprint: %w", err)
			}
			rec.Code = v
		case "name":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("organization blueprint: %w", err)
			}
			rec.Name = v
		case "path":
			v, err := stringAttr(key, raw)
			if err != nil {
				return nil, fmt.Errorf("organization blueprint: %w", err)
			}
			rec.Path = v
		default:
			return nil, fmt.Errorf("organization blueprint: unknown attribute %q", key)
		}
	}
	if rec.Path == "" {
		rec.Path = rec.Code
	}
	return rec, nil
}

func (b *OrganizationBlueprint) Persist(ctx context.Context, entity any) (any, error) {
	rec, ok := entity.(*OrganizationRecord)
	if !ok {
		return nil, fmt.Errorf("organization blueprint: expected *OrganizationRecord, got %T", entity)
	}
	if rec.DomainID == uuid.Nil {
		return nil, fmt.Errorf("organization blueprint: domainId attribute is required")
	}
	if b.client == nil {
		return nil, fmt.Errorf("organization blueprint: database client not initialized")
	}
	builder := b.client.Organization.Create().
		SetDomainID(rec.DomainID).
		SetCode(rec.Code).
		SetName(rec.Name).
		SetPath(rec.Path)
	if rec.ParentID != nil {
		builder.SetParentID(*rec.ParentID)
	}
	return builder.Save(ctx)
}

func shortID() string {
	return uuid.NewString()[:8]
}

func stringAttr(key string, raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("attribute %q: expected string, got %T", key, raw)
	}
	return s, nil
}

func uuidAttr(key string, raw any) (uuid.UUID, error) {
	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, fmt.Errorf("attribute %q: %w", key, err)
		}
		return id, nil
	default:
		return uuid.Nil, fmt.Errorf("attribute %q: expected uuid, got %T", key, raw)
	}
}

func stringsAttr(key string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("attribute %q: expected string elements, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("attribute %q: expected string list, got %T", key, raw)
	}
}

var (
	_ shared.Blueprint = (*TenantBlueprint)(nil)
	_ shared.Persister = (*TenantBlueprint)(nil)
	_ shared.Blueprint = (*RoleBlueprint)(nil)
	_ shared.Persister = (*RoleBlueprint)(nil)
	_ shared.Blueprint = (*OrganizationBlueprint)(nil)
	_ shared.Persister = (*OrganizationBlueprint)(nil)
)

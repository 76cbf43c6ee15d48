package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/comandero/comandero/pkg/domain"
)

// Store is the persistence contract the auth services consume. Every
// principal read or write takes a tenant ID, so there is no code path that
// can reach a row without naming the tenant that owns it. Lookups that miss,
// including IDs that exist under a different tenant, return
// domain.ErrPrincipalNotFound; cross-tenant probing is indistinguishable
// from not-found.
//
// FindPrincipalByLoginEmail is the single exception: login has no tenant
// context yet, so it resolves an email across tenants. No other caller may
// use it.
type Store interface {
	// CreateTenantWithOwner persists a tenant and its owner principal
	// atomically. The tenant row exists before the principal row within the
	// same transaction.
	CreateTenantWithOwner(ctx context.Context, tenant *domain.Tenant, owner *domain.Principal) error

	// CreatePrincipal persists a principal under its tenant. Returns
	// domain.ErrDuplicateEmail when (tenant_id, email) already exists,
	// including when a concurrent insert wins the race.
	CreatePrincipal(ctx context.Context, p *domain.Principal) error

	FindPrincipalByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.Principal, error)
	FindPrincipalByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Principal, error)
	FindPrincipalByLoginEmail(ctx context.Context, email string) (*domain.Principal, error)

	// ListPrincipals returns all principals of a tenant ordered by creation
	// time.
	ListPrincipals(ctx context.Context, tenantID uuid.UUID) ([]*domain.Principal, error)

	UpdatePrincipal(ctx context.Context, p *domain.Principal) error
	SetPrincipalActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error
	DeletePrincipal(ctx context.Context, tenantID, id uuid.UUID) error
	CountOwners(ctx context.Context, tenantID uuid.UUID) (int, error)

	GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)

	// AppendAudit records an audit entry. Entries are append-only; nothing
	// in this service mutates or deletes them.
	AppendAudit(ctx context.Context, entry *domain.AuditEntry) error
	ListAudit(ctx context.Context, tenantID uuid.UUID, limit int) ([]*domain.AuditEntry, error)
}

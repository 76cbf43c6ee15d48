package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/comandero/comandero/pkg/auth"
	"github.com/comandero/comandero/pkg/domain"
)

// Store implements auth.Store over Postgres by composing the repositories.
type Store struct {
	db         *sql.DB
	tenants    *TenantsRepository
	principals *PrincipalsRepository
	audit      *AuditRepository
}

var _ auth.Store = (*Store)(nil)

// NewStore creates the Postgres-backed store gateway.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		tenants:    NewTenantsRepository(db),
		principals: NewPrincipalsRepository(db),
		audit:      NewAuditRepository(db),
	}
}

// CreateTenantWithOwner persists a tenant and its owner in one transaction,
// so the tenant row exists before the principal row that references it.
func (s *Store) CreateTenantWithOwner(ctx context.Context, tenant *domain.Tenant, owner *domain.Principal) error {
	return Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tenants.CreateTx(ctx, tx, tenant); err != nil {
			return err
		}
		return s.principals.CreateTx(ctx, tx, owner)
	})
}

// CreatePrincipal persists a principal under its tenant.
func (s *Store) CreatePrincipal(ctx context.Context, p *domain.Principal) error {
	return s.principals.Create(ctx, p)
}

// FindPrincipalByEmail looks up a principal by (tenant, email).
func (s *Store) FindPrincipalByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.Principal, error) {
	return s.principals.GetByEmail(ctx, tenantID, email)
}

// FindPrincipalByID looks up a principal by (tenant, id).
func (s *Store) FindPrincipalByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Principal, error) {
	return s.principals.GetByID(ctx, tenantID, id)
}

// FindPrincipalByLoginEmail resolves a login email across tenants.
func (s *Store) FindPrincipalByLoginEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return s.principals.GetByLoginEmail(ctx, email)
}

// ListPrincipals returns a tenant's principals ordered by creation time.
func (s *Store) ListPrincipals(ctx context.Context, tenantID uuid.UUID) ([]*domain.Principal, error) {
	return s.principals.ListByTenant(ctx, tenantID)
}

// UpdatePrincipal updates a tenant's principal.
func (s *Store) UpdatePrincipal(ctx context.Context, p *domain.Principal) error {
	return s.principals.Update(ctx, p)
}

// SetPrincipalActive flips a principal's active flag.
func (s *Store) SetPrincipalActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error {
	return s.principals.SetActive(ctx, tenantID, id, active)
}

// DeletePrincipal removes a tenant's principal.
func (s *Store) DeletePrincipal(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.principals.Delete(ctx, tenantID, id)
}

// CountOwners counts a tenant's owners.
func (s *Store) CountOwners(ctx context.Context, tenantID uuid.UUID) (int, error) {
	return s.principals.CountOwners(ctx, tenantID)
}

// GetTenant looks up a tenant by ID.
func (s *Store) GetTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	return s.tenants.GetByID(ctx, tenantID)
}

// AppendAudit records an audit entry.
func (s *Store) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	return s.audit.Append(ctx, entry)
}

// ListAudit returns a tenant's recent audit entries, newest first.
func (s *Store) ListAudit(ctx context.Context, tenantID uuid.UUID, limit int) ([]*domain.AuditEntry, error) {
	return s.audit.ListByTenant(ctx, tenantID, limit)
}

// Package authtest provides an in-memory auth.Store for tests.
package authtest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/comandero/comandero/pkg/domain"
)

// Store is an in-memory implementation of auth.Store. It enforces the same
// contracts as the Postgres gateway: (tenant, email) uniqueness, tenant-
// scoped lookups and creation-time ordering.
type Store struct {
	mu         sync.Mutex
	tenants    map[uuid.UUID]*domain.Tenant
	principals map[uuid.UUID]*domain.Principal
	audits     []*domain.AuditEntry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		tenants:    make(map[uuid.UUID]*domain.Tenant),
		principals: make(map[uuid.UUID]*domain.Principal),
	}
}

// CreateTenantWithOwner stores a tenant and its owner principal.
func (s *Store) CreateTenantWithOwner(_ context.Context, tenant *domain.Tenant, owner *domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.duplicateEmailLocked(owner.TenantID, owner.Email, uuid.Nil) {
		return domain.ErrDuplicateEmail
	}
	t := *tenant
	p := *owner
	s.tenants[t.ID] = &t
	s.principals[p.ID] = &p
	return nil
}

// CreatePrincipal stores a principal, enforcing (tenant, email) uniqueness.
func (s *Store) CreatePrincipal(_ context.Context, principal *domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[principal.TenantID]; !ok {
		return domain.ErrTenantNotFound
	}
	if s.duplicateEmailLocked(principal.TenantID, principal.Email, uuid.Nil) {
		return domain.ErrDuplicateEmail
	}
	p := *principal
	s.principals[p.ID] = &p
	return nil
}

// FindPrincipalByEmail looks up a principal by (tenant, email).
func (s *Store) FindPrincipalByEmail(_ context.Context, tenantID uuid.UUID, email string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.principals {
		if p.TenantID == tenantID && p.Email == email {
			out := *p
			return &out, nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

// FindPrincipalByID looks up a principal by (tenant, id). An ID owned by a
// different tenant is reported as not found.
func (s *Store) FindPrincipalByID(_ context.Context, tenantID, id uuid.UUID) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.principals[id]
	if !ok || p.TenantID != tenantID {
		return nil, domain.ErrPrincipalNotFound
	}
	out := *p
	return &out, nil
}

// FindPrincipalByLoginEmail resolves an email across all tenants, preferring
// the earliest-created match, mirroring the Postgres gateway.
func (s *Store) FindPrincipalByLoginEmail(_ context.Context, email string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *domain.Principal
	for _, p := range s.principals {
		if p.Email != email {
			continue
		}
		if found == nil || p.CreatedAt.Before(found.CreatedAt) {
			found = p
		}
	}
	if found == nil {
		return nil, domain.ErrPrincipalNotFound
	}
	out := *found
	return &out, nil
}

// ListPrincipals returns a tenant's principals ordered by creation time.
func (s *Store) ListPrincipals(_ context.Context, tenantID uuid.UUID) ([]*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Principal
	for _, p := range s.principals {
		if p.TenantID == tenantID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// UpdatePrincipal replaces a stored principal.
func (s *Store) UpdatePrincipal(_ context.Context, principal *domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.principals[principal.ID]
	if !ok || existing.TenantID != principal.TenantID {
		return domain.ErrPrincipalNotFound
	}
	if s.duplicateEmailLocked(principal.TenantID, principal.Email, principal.ID) {
		return domain.ErrDuplicateEmail
	}
	p := *principal
	s.principals[p.ID] = &p
	return nil
}

// SetPrincipalActive flips the active flag of a tenant's principal.
func (s *Store) SetPrincipalActive(_ context.Context, tenantID, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.principals[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrPrincipalNotFound
	}
	p.IsActive = active
	return nil
}

// DeletePrincipal removes a tenant's principal.
func (s *Store) DeletePrincipal(_ context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.principals[id]
	if !ok || p.TenantID != tenantID {
		return domain.ErrPrincipalNotFound
	}
	delete(s.principals, id)
	return nil
}

// CountOwners counts a tenant's owner principals.
func (s *Store) CountOwners(_ context.Context, tenantID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, p := range s.principals {
		if p.TenantID == tenantID && p.Role == domain.RoleOwner {
			n++
		}
	}
	return n, nil
}

// GetTenant looks up a tenant by ID.
func (s *Store) GetTenant(_ context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, domain.ErrTenantNotFound
	}
	out := *t
	return &out, nil
}

// AppendAudit records an audit entry.
func (s *Store) AppendAudit(_ context.Context, entry *domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := *entry
	s.audits = append(s.audits, &e)
	return nil
}

// ListAudit returns the most recent audit entries of a tenant, newest first.
func (s *Store) ListAudit(_ context.Context, tenantID uuid.UUID, limit int) ([]*domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.AuditEntry
	for _, e := range s.audits {
		if e.TenantID == tenantID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AuditEntries returns every recorded entry for assertions in tests.
func (s *Store) AuditEntries() []*domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.AuditEntry, len(s.audits))
	copy(out, s.audits)
	return out
}

func (s *Store) duplicateEmailLocked(tenantID uuid.UUID, email string, exclude uuid.UUID) bool {
	for _, p := range s.principals {
		if p.ID == exclude {
			continue
		}
		if p.TenantID == tenantID && p.Email == email {
			return true
		}
	}
	return false
}

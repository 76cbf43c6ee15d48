package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/comandero/comandero/pkg/domain"
)

// IdentityService orchestrates registration, login and token renewal. It is
// stateless: every call stands alone and may run concurrently with any
// other.
type IdentityService struct {
	store  Store
	hasher *Hasher
	tokens *TokenService
}

// NewIdentityService creates a new identity service.
func NewIdentityService(store Store, hasher *Hasher, tokens *TokenService) *IdentityService {
	return &IdentityService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

// RegisterInput holds the fields for registering a business and its owner.
type RegisterInput struct {
	BusinessName string
	Email        string
	Password     string
	FullName     string
}

// LoginInput holds login credentials. TenantID scopes the email lookup when
// the caller already knows the tenant; when nil the email is resolved across
// tenants (see Login).
type LoginInput struct {
	Email    string
	Password string
	TenantID *uuid.UUID
}

// Register creates a tenant and its owner principal, and issues an initial
// token pair. One registration call always creates a fresh tenant; there is
// no join-an-existing-tenant path here. Retrying a timed-out Register
// creates a second tenant, so callers must deduplicate upstream.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*domain.Principal, *domain.TokenPair, error) {
	if err := ValidateName("business name", in.BusinessName); err != nil {
		return nil, nil, err
	}
	if err := ValidateName("full name", in.FullName); err != nil {
		return nil, nil, err
	}
	if err := ValidateEmail(in.Email); err != nil {
		return nil, nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(in.BusinessName),
		CreatedAt: now,
	}
	owner := &domain.Principal{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        NormalizeEmail(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Role:         domain.RoleOwner,
		IsActive:     true,
		CreatedAt:    now,
	}

	// The tenant is brand new, so a duplicate email is practically
	// impossible; the store still enforces the (tenant_id, email)
	// constraint and the error propagates as ErrDuplicateEmail.
	if err := s.store.CreateTenantWithOwner(ctx, tenant, owner); err != nil {
		return nil, nil, err
	}

	s.audit(ctx, tenant.ID, &owner.ID,
		fmt.Sprintf("owner %q registered, business %q created", owner.FullName, tenant.Name))

	pair, err := s.tokens.IssuePair(owner)
	if err != nil {
		return nil, nil, err
	}
	return owner, pair, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown email
// and wrong password both surface as ErrInvalidCredentials so account
// existence cannot be probed. When TenantID is nil the email is resolved
// across all tenants, matching the original single-email-per-person
// deployment model.
func (s *IdentityService) Login(ctx context.Context, in LoginInput) (*domain.Principal, *domain.TokenPair, error) {
	if in.Email == "" || in.Password == "" {
		return nil, nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	email := NormalizeEmail(in.Email)
	var (
		p   *domain.Principal
		err error
	)
	if in.TenantID != nil {
		p, err = s.store.FindPrincipalByEmail(ctx, *in.TenantID, email)
	} else {
		p, err = s.store.FindPrincipalByLoginEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !s.hasher.Verify(in.Password, p.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !p.IsActive {
		return nil, nil, domain.ErrAccountInactive
	}

	s.audit(ctx, p.TenantID, &p.ID, fmt.Sprintf("%q logged in", p.FullName))

	pair, err := s.tokens.IssuePair(p)
	if err != nil {
		return nil, nil, err
	}
	return p, pair, nil
}

// Refresh mints a new token pair from a refresh token. The principal is
// re-resolved from the store so a deactivated or deleted account cannot
// renew, and the new claims carry the stored tenant and role rather than
// whatever the old token said. Refresh tokens rotate on every call.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.Decode(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Kind != string(domain.TokenKindRefresh) {
		return nil, domain.ErrInvalidToken
	}

	principalID, err := claims.PrincipalID()
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	tenantID, err := claims.TenantUUID()
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	p, err := s.store.FindPrincipalByID(ctx, tenantID, principalID)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrAccountInactive
	}

	return s.tokens.IssuePair(p)
}

// audit records an entry on a best-effort basis; a failed audit write must
// not fail the authentication it describes.
func (s *IdentityService) audit(ctx context.Context, tenantID uuid.UUID, principalID *uuid.UUID, action string) {
	_ = s.store.AppendAudit(ctx, &domain.AuditEntry{
		ID:          uuid.New(),
		TenantID:    tenantID,
		PrincipalID: principalID,
		Action:      action,
		Timestamp:   time.Now(),
	})
}

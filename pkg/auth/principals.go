package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/comandero/comandero/pkg/domain"
)

// PrincipalService manages the principals of a tenant: the employee accounts
// created after the owner registered the business. Every operation takes the
// acting principal produced by the access guard and scopes all store calls
// to that principal's tenant.
type PrincipalService struct {
	store  Store
	hasher *Hasher
}

// NewPrincipalService creates a new principal service.
func NewPrincipalService(store Store, hasher *Hasher) *PrincipalService {
	return &PrincipalService{
		store:  store,
		hasher: hasher,
	}
}

// CreateEmployeeInput holds the fields for creating an employee account.
// Password is optional; when empty a temporary password is generated and
// returned once in the result.
type CreateEmployeeInput struct {
	Email    string
	FullName string
	Role     domain.Role
	Password string
}

// CreateEmployeeResult carries the created principal plus the generated
// temporary password, if any.
type CreateEmployeeResult struct {
	Principal         *domain.Principal
	TemporaryPassword string
}

// CreateEmployee creates an employee under the actor's tenant. The new role
// must rank strictly below the actor's role; creating an owner is always
// forbidden, since owners exist only through registration.
func (s *PrincipalService) CreateEmployee(ctx context.Context, actor *domain.Principal, in CreateEmployeeInput) (*CreateEmployeeResult, error) {
	if !in.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}
	if in.Role == domain.RoleOwner || !actor.Role.CanManage(in.Role) {
		return nil, fmt.Errorf("%w: role %s cannot create role %s", domain.ErrForbidden, actor.Role, in.Role)
	}
	if err := ValidateName("full name", in.FullName); err != nil {
		return nil, err
	}
	if err := ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	password := in.Password
	generated := false
	if password == "" {
		var err error
		password, err = GeneratePassword()
		if err != nil {
			return nil, err
		}
		generated = true
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	p := &domain.Principal{
		ID:           uuid.New(),
		TenantID:     actor.TenantID,
		Email:        NormalizeEmail(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreatePrincipal(ctx, p); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, fmt.Sprintf("employee %q (%s) created with role %s", p.FullName, p.Email, p.Role))

	result := &CreateEmployeeResult{Principal: p}
	if generated {
		result.TemporaryPassword = password
	}
	return result, nil
}

// ListEmployees returns the actor's tenant principals ordered by creation
// time.
func (s *PrincipalService) ListEmployees(ctx context.Context, actor *domain.Principal) ([]*domain.Principal, error) {
	return s.store.ListPrincipals(ctx, actor.TenantID)
}

// GetEmployee returns one principal of the actor's tenant. IDs owned by
// another tenant come back as ErrPrincipalNotFound.
func (s *PrincipalService) GetEmployee(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.Principal, error) {
	return s.store.FindPrincipalByID(ctx, actor.TenantID, id)
}

// UpdateEmployeeInput holds optional updates; nil fields are left unchanged.
type UpdateEmployeeInput struct {
	FullName *string
	Email    *string
	Role     *domain.Role
	IsActive *bool
}

// UpdateEmployee applies the given changes to an employee of the actor's
// tenant. The actor must outrank both the employee's current role and, when
// changing roles, the new role; the owner role can be neither granted nor
// taken away here.
func (s *PrincipalService) UpdateEmployee(ctx context.Context, actor *domain.Principal, id uuid.UUID, in UpdateEmployeeInput) (*domain.Principal, error) {
	p, err := s.store.FindPrincipalByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if p.Role == domain.RoleOwner || !actor.Role.CanManage(p.Role) {
		return nil, fmt.Errorf("%w: role %s cannot manage role %s", domain.ErrForbidden, actor.Role, p.Role)
	}

	if in.FullName != nil {
		if err := ValidateName("full name", *in.FullName); err != nil {
			return nil, err
		}
		p.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		if err := ValidateEmail(*in.Email); err != nil {
			return nil, err
		}
		p.Email = NormalizeEmail(*in.Email)
	}
	if in.Role != nil {
		if !in.Role.IsValid() {
			return nil, domain.ErrInvalidRole
		}
		if *in.Role == domain.RoleOwner || !actor.Role.CanManage(*in.Role) {
			return nil, fmt.Errorf("%w: role %s cannot assign role %s", domain.ErrForbidden, actor.Role, *in.Role)
		}
		p.Role = *in.Role
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := s.store.UpdatePrincipal(ctx, p); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, fmt.Sprintf("employee %q (%s) updated", p.FullName, p.Email))
	return p, nil
}

// SetEmployeeActive activates or deactivates an employee. A deactivated
// principal can no longer log in, refresh or pass the access guard.
func (s *PrincipalService) SetEmployeeActive(ctx context.Context, actor *domain.Principal, id uuid.UUID, active bool) error {
	p, err := s.store.FindPrincipalByID(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if p.Role == domain.RoleOwner || !actor.Role.CanManage(p.Role) {
		return fmt.Errorf("%w: role %s cannot manage role %s", domain.ErrForbidden, actor.Role, p.Role)
	}

	if err := s.store.SetPrincipalActive(ctx, actor.TenantID, id, active); err != nil {
		return err
	}

	verb := "deactivated"
	if active {
		verb = "activated"
	}
	s.audit(ctx, actor, fmt.Sprintf("employee %q (%s) %s", p.FullName, p.Email, verb))
	return nil
}

// DeleteEmployee permanently removes an employee from the actor's tenant.
// Deletion is reserved for owners; admins can only deactivate. The last
// owner of a tenant can never be deleted.
func (s *PrincipalService) DeleteEmployee(ctx context.Context, actor *domain.Principal, id uuid.UUID) error {
	if actor.Role != domain.RoleOwner {
		return fmt.Errorf("%w: only owners can delete accounts", domain.ErrForbidden)
	}
	p, err := s.store.FindPrincipalByID(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if p.Role == domain.RoleOwner {
		owners, err := s.store.CountOwners(ctx, actor.TenantID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return domain.ErrLastOwner
		}
	}

	if err := s.store.DeletePrincipal(ctx, actor.TenantID, id); err != nil {
		return err
	}

	s.audit(ctx, actor, fmt.Sprintf("employee %q (%s) deleted", p.FullName, p.Email))
	return nil
}

func (s *PrincipalService) audit(ctx context.Context, actor *domain.Principal, action string) {
	_ = s.store.AppendAudit(ctx, &domain.AuditEntry{
		ID:          uuid.New(),
		TenantID:    actor.TenantID,
		PrincipalID: &actor.ID,
		Action:      action,
		Timestamp:   time.Now(),
	})
}

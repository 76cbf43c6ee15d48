package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/comandero/comandero/pkg/auth"
	"github.com/comandero/comandero/pkg/domain"
)

type principalsFixture struct {
	*identityFixture
	principals *auth.PrincipalService
	owner      *domain.Principal
	hasher     *auth.Hasher
}

func newPrincipalsFixture(t *testing.T) *principalsFixture {
	t.Helper()

	f := newIdentityFixture(t)
	hasher := auth.NewHasher(bcrypt.MinCost)
	owner, _ := f.register(t, "Cafe A", "owner@x.com", "pw12345678", "Owner")
	return &principalsFixture{
		identityFixture: f,
		principals:      auth.NewPrincipalService(f.store, hasher),
		owner:           owner,
		hasher:          hasher,
	}
}

func TestPrincipalService_CreateEmployee(t *testing.T) {
	f := newPrincipalsFixture(t)
	ctx := context.Background()

	result, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
		Email:    "waiter@x.com",
		FullName: "W",
		Role:     domain.RoleWaiter,
		Password: "pw12345678",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleWaiter, result.Principal.Role)
	require.Equal(t, f.owner.TenantID, result.Principal.TenantID)
	require.Empty(t, result.TemporaryPassword, "no temporary password when one was supplied")

	t.Run("duplicate email in tenant", func(t *testing.T) {
		_, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
			Email:    "waiter@x.com",
			FullName: "W2",
			Role:     domain.RoleCook,
			Password: "pw12345678",
		})
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("same email in another tenant succeeds", func(t *testing.T) {
		otherOwner, _ := f.register(t, "Cafe B", "owner-b@x.com", "pw12345678", "B")
		_, err := f.principals.CreateEmployee(ctx, otherOwner, auth.CreateEmployeeInput{
			Email:    "waiter@x.com",
			FullName: "W",
			Role:     domain.RoleWaiter,
			Password: "pw12345678",
		})
		require.NoError(t, err)
	})
}

func TestPrincipalService_CreateEmployee_TemporaryPassword(t *testing.T) {
	f := newPrincipalsFixture(t)

	result, err := f.principals.CreateEmployee(context.Background(), f.owner, auth.CreateEmployeeInput{
		Email:    "cook@x.com",
		FullName: "C",
		Role:     domain.RoleCook,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.TemporaryPassword)
	require.True(t, f.hasher.Verify(result.TemporaryPassword, result.Principal.PasswordHash),
		"temporary password must match the stored hash")
}

func TestPrincipalService_CreateEmployee_RoleHierarchy(t *testing.T) {
	f := newPrincipalsFixture(t)
	ctx := context.Background()

	adminResult, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
		Email:    "admin@x.com",
		FullName: "Admin",
		Role:     domain.RoleAdmin,
		Password: "pw12345678",
	})
	require.NoError(t, err)
	admin := adminResult.Principal

	tests := []struct {
		name    string
		actor   *domain.Principal
		role    domain.Role
		wantErr error
	}{
		{name: "owner cannot create owner", actor: f.owner, role: domain.RoleOwner, wantErr: domain.ErrForbidden},
		{name: "admin cannot create admin", actor: admin, role: domain.RoleAdmin, wantErr: domain.ErrForbidden},
		{name: "admin cannot create owner", actor: admin, role: domain.RoleOwner, wantErr: domain.ErrForbidden},
		{name: "admin creates cashier", actor: admin, role: domain.RoleCashier},
		{name: "invalid role", actor: f.owner, role: domain.Role("manager"), wantErr: domain.ErrInvalidRole},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.principals.CreateEmployee(ctx, tt.actor, auth.CreateEmployeeInput{
				Email:    uuid.NewString()[:8] + "@x.com",
				FullName: "E",
				Role:     tt.role,
				Password: "pw12345678",
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err, "case %d", i)
			}
		})
	}
}

func TestPrincipalService_ListAndGet(t *testing.T) {
	f := newPrincipalsFixture(t)
	ctx := context.Background()

	waiter, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
		Email:    "waiter@x.com",
		FullName: "W",
		Role:     domain.RoleWaiter,
		Password: "pw12345678",
	})
	require.NoError(t, err)

	list, err := f.principals.ListEmployees(ctx, f.owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, f.owner.ID, list[0].ID, "ordered by creation time")

	t.Run("cross-tenant id is not found", func(t *testing.T) {
		otherOwner, _ := f.register(t, "Cafe B", "owner-b@x.com", "pw12345678", "B")
		_, err := f.principals.GetEmployee(ctx, otherOwner, waiter.Principal.ID)
		require.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	})

	t.Run("same tenant id resolves", func(t *testing.T) {
		got, err := f.principals.GetEmployee(ctx, f.owner, waiter.Principal.ID)
		require.NoError(t, err)
		require.Equal(t, "waiter@x.com", got.Email)
	})
}

func TestPrincipalService_UpdateEmployee(t *testing.T) {
	f := newPrincipalsFixture(t)
	ctx := context.Background()

	waiter, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
		Email:    "waiter@x.com",
		FullName: "W",
		Role:     domain.RoleWaiter,
		Password: "pw12345678",
	})
	require.NoError(t, err)

	newName := "W Renamed"
	newRole := domain.RoleCashier
	updated, err := f.principals.UpdateEmployee(ctx, f.owner, waiter.Principal.ID, auth.UpdateEmployeeInput{
		FullName: &newName,
		Role:     &newRole,
	})
	require.NoError(t, err)
	require.Equal(t, "W Renamed", updated.FullName)
	require.Equal(t, domain.RoleCashier, updated.Role)

	t.Run("owner role cannot be granted", func(t *testing.T) {
		ownerRole := domain.RoleOwner
		_, err := f.principals.UpdateEmployee(ctx, f.owner, waiter.Principal.ID, auth.UpdateEmployeeInput{Role: &ownerRole})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("owner cannot be managed", func(t *testing.T) {
		name := "X"
		_, err := f.principals.UpdateEmployee(ctx, f.owner, f.owner.ID, auth.UpdateEmployeeInput{FullName: &name})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestPrincipalService_SetEmployeeActive(t *testing.T) {
	f := newPrincipalsFixture(t)
	ctx := context.Background()

	cook, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
		Email:    "cook@x.com",
		FullName: "C",
		Role:     domain.RoleCook,
		Password: "pw12345678",
	})
	require.NoError(t, err)

	require.NoError(t, f.principals.SetEmployeeActive(ctx, f.owner, cook.Principal.ID, false))

	got, err := f.principals.GetEmployee(ctx, f.owner, cook.Principal.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	_, _, err = f.service.Login(ctx, auth.LoginInput{Email: "cook@x.com", Password: "pw12345678"})
	require.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestPrincipalService_DeleteEmployee(t *testing.T) {
	f := newPrincipalsFixture(t)
	ctx := context.Background()

	t.Run("last owner cannot be deleted", func(t *testing.T) {
		err := f.principals.DeleteEmployee(ctx, f.owner, f.owner.ID)
		require.ErrorIs(t, err, domain.ErrLastOwner)
	})

	t.Run("admin cannot delete", func(t *testing.T) {
		adminResult, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
			Email:    "admin@x.com",
			FullName: "Admin",
			Role:     domain.RoleAdmin,
			Password: "pw12345678",
		})
		require.NoError(t, err)
		cook, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
			Email:    "cook@x.com",
			FullName: "C",
			Role:     domain.RoleCook,
			Password: "pw12345678",
		})
		require.NoError(t, err)

		err = f.principals.DeleteEmployee(ctx, adminResult.Principal, cook.Principal.ID)
		require.ErrorIs(t, err, domain.ErrForbidden)

		_, err = f.principals.GetEmployee(ctx, f.owner, cook.Principal.ID)
		require.NoError(t, err, "cook must still exist")
	})

	t.Run("employee deleted", func(t *testing.T) {
		waiter, err := f.principals.CreateEmployee(ctx, f.owner, auth.CreateEmployeeInput{
			Email:    "waiter@x.com",
			FullName: "W",
			Role:     domain.RoleWaiter,
			Password: "pw12345678",
		})
		require.NoError(t, err)

		require.NoError(t, f.principals.DeleteEmployee(ctx, f.owner, waiter.Principal.ID))

		_, err = f.principals.GetEmployee(ctx, f.owner, waiter.Principal.ID)
		require.ErrorIs(t, err, domain.ErrPrincipalNotFound)
	})
}

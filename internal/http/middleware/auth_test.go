package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/comandero/comandero/internal/http/middleware"
	"github.com/comandero/comandero/pkg/auth"
	"github.com/comandero/comandero/pkg/auth/authtest"
	"github.com/comandero/comandero/pkg/domain"
)

type guardFixture struct {
	store  *authtest.Store
	tokens *auth.TokenService
	guard  func(http.Handler) http.Handler
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	store := authtest.NewStore()
	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte("guard-test-secret-with-enough-bytes"),
		Issuer: "comandero-test",
	})
	return &guardFixture{
		store:  store,
		tokens: tokens,
		guard:  middleware.Auth(tokens, store),
	}
}

func (f *guardFixture) addPrincipal(t *testing.T, role domain.Role, active bool) *domain.Principal {
	t.Helper()
	tenant := &domain.Tenant{ID: uuid.New(), Name: "Guard Test Cafe", CreatedAt: time.Now().UTC()}
	p := &domain.Principal{
		ID:        uuid.New(),
		TenantID:  tenant.ID,
		Email:     "guard@example.com",
		FullName:  "Guard Test",
		Role:      role,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.store.CreateTenantWithOwner(context.Background(), tenant, p))
	return p
}

// echoPrincipal returns 200 and records the principal the guard put in
// context.
func echoPrincipal(captured **domain.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := middleware.GetPrincipal(r.Context()); ok {
			*captured = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMissingAuthorization(t *testing.T) {
	f := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	f.guard(echoPrincipal(new(*domain.Principal))).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing authorization")
}

func TestAuthGarbageToken(t *testing.T) {
	f := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	f.guard(echoPrincipal(new(*domain.Principal))).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid or expired token")
}

func TestAuthRefreshTokenRejected(t *testing.T) {
	f := newGuardFixture(t)
	p := f.addPrincipal(t, domain.RoleCashier, true)

	refresh, err := f.tokens.Issue(p, domain.TokenKindRefresh)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	f.guard(echoPrincipal(new(*domain.Principal))).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthExpiredToken(t *testing.T) {
	f := newGuardFixture(t)
	p := f.addPrincipal(t, domain.RoleCashier, true)

	token, err := f.tokens.IssueWithTTL(p, domain.TokenKindAccess, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.guard(echoPrincipal(new(*domain.Principal))).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthDeletedPrincipal(t *testing.T) {
	f := newGuardFixture(t)
	p := f.addPrincipal(t, domain.RoleCashier, true)

	token, err := f.tokens.Issue(p, domain.TokenKindAccess)
	require.NoError(t, err)
	require.NoError(t, f.store.DeletePrincipal(context.Background(), p.TenantID, p.ID))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.guard(echoPrincipal(new(*domain.Principal))).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInactivePrincipal(t *testing.T) {
	f := newGuardFixture(t)
	p := f.addPrincipal(t, domain.RoleCashier, true)

	token, err := f.tokens.Issue(p, domain.TokenKindAccess)
	require.NoError(t, err)
	require.NoError(t, f.store.SetPrincipalActive(context.Background(), p.TenantID, p.ID, false))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.guard(echoPrincipal(new(*domain.Principal))).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthValidBearerToken(t *testing.T) {
	f := newGuardFixture(t)
	p := f.addPrincipal(t, domain.RoleWaiter, true)

	token, err := f.tokens.Issue(p, domain.TokenKindAccess)
	require.NoError(t, err)

	var captured *domain.Principal
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.guard(echoPrincipal(&captured)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	require.Equal(t, p.ID, captured.ID)
	require.Equal(t, p.TenantID, captured.TenantID)
	require.Equal(t, domain.RoleWaiter, captured.Role)
}

func TestAuthCookieFallback(t *testing.T) {
	f := newGuardFixture(t)
	p := f.addPrincipal(t, domain.RoleCashier, true)

	token, err := f.tokens.Issue(p, domain.TokenKindAccess)
	require.NoError(t, err)

	var captured *domain.Principal
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	f.guard(echoPrincipal(&captured)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	require.Equal(t, p.ID, captured.ID)
}

func TestRequireRole(t *testing.T) {
	f := newGuardFixture(t)

	handler := func(p *domain.Principal, roles ...domain.Role) *httptest.ResponseRecorder {
		token, err := f.tokens.Issue(p, domain.TokenKindAccess)
		require.NoError(t, err)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/v1/employees", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		f.guard(middleware.RequireRole(roles...)(next)).ServeHTTP(rec, req)
		return rec
	}

	owner := f.addPrincipal(t, domain.RoleOwner, true)
	cashier := &domain.Principal{
		ID:        uuid.New(),
		TenantID:  owner.TenantID,
		Email:     "cashier@example.com",
		FullName:  "Cash Ier",
		Role:      domain.RoleCashier,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.store.CreatePrincipal(context.Background(), cashier))

	require.Equal(t, http.StatusOK, handler(owner, domain.RoleOwner, domain.RoleAdmin).Code)
	require.Equal(t, http.StatusForbidden, handler(cashier, domain.RoleOwner, domain.RoleAdmin).Code)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/v1/employees", nil)
	rec := httptest.NewRecorder()
	middleware.RequireRole(domain.RoleOwner)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

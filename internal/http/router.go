package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/comandero/comandero/internal/http/features/authn"
	"github.com/comandero/comandero/internal/http/features/business"
	"github.com/comandero/comandero/internal/http/features/employees"
	"github.com/comandero/comandero/internal/http/features/me"
	"github.com/comandero/comandero/internal/http/middleware"
	"github.com/comandero/comandero/internal/httputil"
	"github.com/comandero/comandero/pkg/auth"
	"github.com/comandero/comandero/pkg/domain"
)

// maxRequestBodySize limits request bodies; nothing on this API needs more
// than a small JSON document.
const maxRequestBodySize = 1 << 20 // 1 MB

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger           *slog.Logger
	IdentityService  *auth.IdentityService
	PrincipalService *auth.PrincipalService
	TokenService     *auth.TokenService
	Store            auth.Store

	// AuthRateLimit caps unauthenticated auth attempts per IP per window.
	// Zero disables rate limiting.
	AuthRateLimit       int
	AuthRateLimitWindow time.Duration
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestSizeLimit(maxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authLimiter := middleware.NoRateLimit()
	if cfg.AuthRateLimit > 0 {
		authLimiter = middleware.RateLimit(middleware.RateLimitConfig{
			Requests: cfg.AuthRateLimit,
			Window:   cfg.AuthRateLimitWindow,
			Logger:   cfg.Logger,
		})
	}

	guard := middleware.Auth(cfg.TokenService, cfg.Store)

	// Register authentication routes
	authnHandler := authn.NewHandler(cfg.Logger, cfg.IdentityService, cfg.TokenService)
	r.Group(func(r chi.Router) {
		r.Use(authLimiter)
		r.Post("/v1/auth/register", authnHandler.Register)
		r.Post("/v1/auth/login", authnHandler.Login)
		r.Post("/v1/auth/refresh", authnHandler.Refresh)
	})
	r.Post("/v1/auth/logout", authnHandler.Logout)

	// Register current-account routes
	meHandler := me.NewHandler()
	r.With(guard).Get("/v1/me", meHandler.GetMe)

	// Register employee management routes; restricted to managing roles
	employeesHandler := employees.NewHandler(cfg.Logger, cfg.PrincipalService)
	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Use(middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin))
		r.Post("/v1/employees", employeesHandler.Create)
		r.Get("/v1/employees", employeesHandler.List)
		r.Get("/v1/employees/{id}", employeesHandler.Get)
		r.Patch("/v1/employees/{id}", employeesHandler.Update)
		r.Post("/v1/employees/{id}/deactivate", employeesHandler.Deactivate)
		r.Post("/v1/employees/{id}/activate", employeesHandler.Activate)
	})

	// Permanent deletion is reserved for owners; admins can only deactivate.
	r.With(guard, middleware.RequireRole(domain.RoleOwner)).
		Delete("/v1/employees/{id}", employeesHandler.Delete)

	// Register business routes
	businessHandler := business.NewHandler(cfg.Logger, cfg.Store)
	r.With(guard).Get("/v1/business", businessHandler.Get)
	r.With(guard, middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin)).
		Get("/v1/business/audit", businessHandler.Audit)

	return r
}

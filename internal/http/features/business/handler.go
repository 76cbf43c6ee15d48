package business

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/comandero/comandero/internal/http/middleware"
	"github.com/comandero/comandero/internal/httputil"
	"github.com/comandero/comandero/pkg/auth"
	"github.com/comandero/comandero/pkg/domain"
)

// defaultAuditLimit caps the audit listing when no limit is given.
const defaultAuditLimit = 50

// maxAuditLimit is the hard ceiling for one audit page.
const maxAuditLimit = 500

// Handler handles business-level endpoints.
type Handler struct {
	logger *slog.Logger
	store  auth.Store
}

// NewHandler creates a new business handler.
func NewHandler(logger *slog.Logger, store auth.Store) *Handler {
	return &Handler{
		logger: logger,
		store:  store,
	}
}

// BusinessResponse represents the business of the authenticated principal.
type BusinessResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditEntryResponse represents one audit entry.
type AuditEntryResponse struct {
	ID          string    `json:"id"`
	PrincipalID *string   `json:"principal_id,omitempty"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
}

// AuditResponse wraps the audit listing.
type AuditResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}

// Get returns the business of the authenticated principal.
// GET /v1/business
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tenant, err := h.store.GetTenant(r.Context(), principal.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			httputil.Error(w, http.StatusNotFound, "business not found")
			return
		}
		h.logger.Error("failed to load business", "error", err, "business_id", principal.TenantID)
		httputil.Error(w, http.StatusInternalServerError, "failed to load business")
		return
	}

	httputil.JSON(w, http.StatusOK, BusinessResponse{
		ID:        tenant.ID.String(),
		Name:      tenant.Name,
		CreatedAt: tenant.CreatedAt,
	})
}

// Audit returns the most recent audit entries of the business, newest first.
// GET /v1/business/audit?limit=50
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n > maxAuditLimit {
			n = maxAuditLimit
		}
		limit = n
	}

	entries, err := h.store.ListAudit(r.Context(), principal.TenantID, limit)
	if err != nil {
		h.logger.Error("failed to list audit entries", "error", err, "business_id", principal.TenantID)
		httputil.Error(w, http.StatusInternalServerError, "failed to list audit entries")
		return
	}

	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := AuditEntryResponse{
			ID:        e.ID.String(),
			Action:    e.Action,
			Timestamp: e.Timestamp,
		}
		if e.PrincipalID != nil {
			id := e.PrincipalID.String()
			resp.PrincipalID = &id
		}
		out = append(out, resp)
	}
	httputil.JSON(w, http.StatusOK, AuditResponse{Entries: out})
}

package me

import (
	"net/http"
	"time"

	"github.com/comandero/comandero/internal/http/middleware"
	"github.com/comandero/comandero/internal/httputil"
)

// Handler handles the current-account endpoint.
type Handler struct{}

// NewHandler creates a new me handler.
func NewHandler() *Handler {
	return &Handler{}
}

// MeResponse represents the current account.
type MeResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetMe returns the authenticated principal. The access guard already
// re-read it from the store, so no further lookup is needed.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	httputil.JSON(w, http.StatusOK, MeResponse{
		ID:         principal.ID.String(),
		BusinessID: principal.TenantID.String(),
		Email:      principal.Email,
		FullName:   principal.FullName,
		Role:       string(principal.Role),
		IsActive:   principal.IsActive,
		CreatedAt:  principal.CreatedAt,
	})
}

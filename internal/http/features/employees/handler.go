package employees

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/comandero/comandero/internal/http/middleware"
	"github.com/comandero/comandero/internal/httputil"
	"github.com/comandero/comandero/pkg/auth"
	"github.com/comandero/comandero/pkg/domain"
)

// Handler handles employee management endpoints. Every operation acts within
// the tenant of the authenticated principal.
type Handler struct {
	logger     *slog.Logger
	principals *auth.PrincipalService
}

// NewHandler creates a new employees handler.
func NewHandler(logger *slog.Logger, principals *auth.PrincipalService) *Handler {
	return &Handler{
		logger:     logger,
		principals: principals,
	}
}

// CreateRequest represents an employee creation request. Password is
// optional; when omitted a temporary password is generated and returned once.
type CreateRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// UpdateRequest represents an employee update request; nil fields are left
// unchanged.
type UpdateRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// EmployeeResponse represents an employee in responses.
type EmployeeResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateResponse is the employee creation response; TemporaryPassword is set
// only when the password was generated server-side.
type CreateResponse struct {
	Employee          EmployeeResponse `json:"employee"`
	TemporaryPassword string           `json:"temporary_password,omitempty"`
}

// ListResponse wraps the employee list.
type ListResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

// Create creates an employee account.
// POST /v1/employees
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid role")
		return
	}

	result, err := h.principals.CreateEmployee(r.Context(), actor, auth.CreateEmployeeInput{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     role,
		Password: req.Password,
	})
	if err != nil {
		h.writeEmployeeError(w, err, "failed to create employee")
		return
	}

	h.logger.Info("employee created",
		"business_id", actor.TenantID,
		"employee_id", result.Principal.ID,
		"role", result.Principal.Role,
	)
	httputil.JSON(w, http.StatusCreated, CreateResponse{
		Employee:          toEmployeeResponse(result.Principal),
		TemporaryPassword: result.TemporaryPassword,
	})
}

// List returns all employees of the actor's business.
// GET /v1/employees
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	list, err := h.principals.ListEmployees(r.Context(), actor)
	if err != nil {
		h.writeEmployeeError(w, err, "failed to list employees")
		return
	}

	out := make([]EmployeeResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toEmployeeResponse(p))
	}
	httputil.JSON(w, http.StatusOK, ListResponse{Employees: out})
}

// Get returns one employee of the actor's business.
// GET /v1/employees/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	p, err := h.principals.GetEmployee(r.Context(), actor, id)
	if err != nil {
		h.writeEmployeeError(w, err, "failed to get employee")
		return
	}
	httputil.JSON(w, http.StatusOK, toEmployeeResponse(p))
}

// Update applies changes to an employee.
// PATCH /v1/employees/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := auth.UpdateEmployeeInput{
		FullName: req.FullName,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid role")
			return
		}
		in.Role = &role
	}

	p, err := h.principals.UpdateEmployee(r.Context(), actor, id, in)
	if err != nil {
		h.writeEmployeeError(w, err, "failed to update employee")
		return
	}
	httputil.JSON(w, http.StatusOK, toEmployeeResponse(p))
}

// Deactivate disables an employee account.
// POST /v1/employees/{id}/deactivate
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Activate re-enables an employee account.
// POST /v1/employees/{id}/activate
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	if err := h.principals.SetEmployeeActive(r.Context(), actor, id, active); err != nil {
		h.writeEmployeeError(w, err, "failed to update employee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete permanently removes an employee.
// DELETE /v1/employees/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	if err := h.principals.DeleteEmployee(r.Context(), actor, id); err != nil {
		h.writeEmployeeError(w, err, "failed to delete employee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeEmployeeError maps service errors onto HTTP responses.
func (h *Handler) writeEmployeeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrInvalidRole):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.Error(w, http.StatusForbidden, "insufficient role")
	case errors.Is(err, domain.ErrPrincipalNotFound):
		httputil.Error(w, http.StatusNotFound, "employee not found")
	case errors.Is(err, domain.ErrDuplicateEmail):
		httputil.Error(w, http.StatusConflict, "email already in use")
	case errors.Is(err, domain.ErrLastOwner):
		httputil.Error(w, http.StatusConflict, "cannot remove the last owner")
	default:
		h.logger.Error(fallback, "error", err)
		httputil.Error(w, http.StatusInternalServerError, fallback)
	}
}

func toEmployeeResponse(p *domain.Principal) EmployeeResponse {
	return EmployeeResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      string(p.Role),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

package authn

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/comandero/comandero/internal/httputil"
	"github.com/comandero/comandero/pkg/auth"
	"github.com/comandero/comandero/pkg/domain"
)

// Handler handles registration, login and token refresh endpoints.
type Handler struct {
	logger       *slog.Logger
	identity     *auth.IdentityService
	tokens       *auth.TokenService
	cookieConfig httputil.CookieConfig
}

// NewHandler creates a new authentication handler.
func NewHandler(logger *slog.Logger, identity *auth.IdentityService, tokens *auth.TokenService) *Handler {
	return &Handler{
		logger:       logger,
		identity:     identity,
		tokens:       tokens,
		cookieConfig: httputil.DefaultCookieConfig(),
	}
}

// RegisterRequest represents a business registration request.
type RegisterRequest struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
}

// LoginRequest represents a login request. BusinessID is optional; when set
// the email is resolved only within that business.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	BusinessID string `json:"business_id,omitempty"`
}

// RefreshRequest represents a token refresh request (for mobile clients).
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// PrincipalResponse represents the account part of an auth response.
type PrincipalResponse struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
}

// TokenResponse represents a token response.
type TokenResponse struct {
	AccessToken  string             `json:"access_token,omitempty"`
	RefreshToken string             `json:"refresh_token,omitempty"`
	TokenType    string             `json:"token_type"`
	ExpiresIn    int                `json:"expires_in"`
	Principal    *PrincipalResponse `json:"principal,omitempty"`
}

// Register creates a business with its owner account.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner, tokens, err := h.identity.Register(r.Context(), auth.RegisterInput{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
	})
	if err != nil {
		h.writeAuthError(w, err, "registration failed")
		return
	}

	h.logger.Info("business registered", "business_id", owner.TenantID, "owner_id", owner.ID)
	h.writeTokenResponse(w, r, http.StatusCreated, owner, tokens)
}

// Login verifies credentials and issues tokens.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := auth.LoginInput{Email: req.Email, Password: req.Password}
	if req.BusinessID != "" {
		tenantID, err := uuid.Parse(req.BusinessID)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid business_id")
			return
		}
		in.TenantID = &tenantID
	}

	principal, tokens, err := h.identity.Login(r.Context(), in)
	if err != nil {
		h.writeAuthError(w, err, "login failed")
		return
	}

	h.writeTokenResponse(w, r, http.StatusOK, principal, tokens)
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// token stops being presented by well-behaved clients; the new pair replaces
// both cookies for web clients.
// POST /v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string

	if httputil.IsMobileClient(r) {
		// Mobile: read from request body
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		refreshToken = req.RefreshToken
	} else {
		// Web: read from cookie
		var ok bool
		refreshToken, ok = httputil.GetRefreshTokenFromCookie(r)
		if !ok {
			httputil.Error(w, http.StatusUnauthorized, "refresh token not found")
			return
		}
	}

	if refreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	tokens, err := h.identity.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrAccountInactive) {
			httputil.Error(w, http.StatusForbidden, "account is inactive")
			return
		}
		// Expired, malformed, tampered and revoked tokens all get the same
		// response so the refresh endpoint cannot be used as an oracle.
		if !httputil.IsMobileClient(r) {
			httputil.ClearAuthCookies(w, h.cookieConfig)
		}
		httputil.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	h.writeTokenResponse(w, r, http.StatusOK, nil, tokens)
}

// Logout clears auth cookies for web clients. Tokens are stateless, so
// mobile clients log out by discarding their copies.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !httputil.IsMobileClient(r) {
		httputil.ClearAuthCookies(w, h.cookieConfig)
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAuthError maps service errors onto HTTP responses.
func (h *Handler) writeAuthError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrWeakPassword):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		httputil.Error(w, http.StatusConflict, "email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.Error(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrAccountInactive):
		httputil.Error(w, http.StatusForbidden, "account is inactive")
	default:
		h.logger.Error(fallback, "error", err)
		httputil.Error(w, http.StatusInternalServerError, fallback)
	}
}

// writeTokenResponse writes tokens as cookies (web) or JSON (mobile).
func (h *Handler) writeTokenResponse(w http.ResponseWriter, r *http.Request, status int, principal *domain.Principal, tokens *domain.TokenPair) {
	var pr *PrincipalResponse
	if principal != nil {
		pr = &PrincipalResponse{
			ID:         principal.ID.String(),
			BusinessID: principal.TenantID.String(),
			Email:      principal.Email,
			FullName:   principal.FullName,
			Role:       string(principal.Role),
		}
	}

	if httputil.IsMobileClient(r) {
		httputil.JSON(w, status, TokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			TokenType:    tokens.TokenType,
			ExpiresIn:    tokens.ExpiresIn,
			Principal:    pr,
		})
		return
	}

	// Web: set HttpOnly cookies
	httputil.SetAuthCookies(
		w,
		tokens.AccessToken,
		tokens.RefreshToken,
		h.tokens.AccessTokenTTL(),
		h.tokens.RefreshTokenTTL(),
		h.cookieConfig,
	)

	httputil.JSON(w, status, TokenResponse{
		TokenType: tokens.TokenType,
		ExpiresIn: tokens.ExpiresIn,
		Principal: pr,
	})
}

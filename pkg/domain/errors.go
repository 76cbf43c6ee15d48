package domain

import "errors"

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUnauthorized       = errors.New("missing credentials")
	ErrForbidden          = errors.New("insufficient role")
)

// Token errors. Decode failures collapse to a single outward signal at the
// HTTP boundary; the specific kind is kept for internal logging only.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenMalformed   = errors.New("malformed token")
)

// Validation errors
var (
	ErrValidation   = errors.New("invalid input")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password does not meet requirements")
	ErrInvalidRole  = errors.New("unknown role")
)

// Store errors
var (
	ErrTenantNotFound    = errors.New("tenant not found")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrDuplicateEmail    = errors.New("email already registered in this business")
	ErrLastOwner         = errors.New("business must keep at least one owner")
)

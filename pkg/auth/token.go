package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/comandero/comandero/pkg/domain"
)

const (
	// DefaultAccessTokenTTL is the default access token lifetime.
	DefaultAccessTokenTTL = 30 * time.Minute
	// DefaultRefreshTokenTTL is the default refresh token lifetime.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenConfig holds token signing configuration. The secret is read-only
// after startup; rotating it invalidates every outstanding token.
type TokenConfig struct {
	Secret          []byte
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Claims is the payload embedded in every signed token. Kind must be checked
// by the caller: Decode never infers it.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	Kind     string `json:"kind"`
}

// PrincipalID returns the token subject as a UUID.
func (c *Claims) PrincipalID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TenantUUID returns the tenant claim as a UUID.
func (c *Claims) TenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

// TokenService signs and verifies session tokens using HMAC-SHA256.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a token service. Zero TTLs fall back to the
// defaults.
func NewTokenService(config TokenConfig) *TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	return &TokenService{config: config}
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenTTL
}

// Issue signs a token of the given kind for the principal, using the
// configured lifetime for that kind.
func (s *TokenService) Issue(p *domain.Principal, kind domain.TokenKind) (string, error) {
	ttl := s.config.AccessTokenTTL
	if kind == domain.TokenKindRefresh {
		ttl = s.config.RefreshTokenTTL
	}
	return s.IssueWithTTL(p, kind, ttl)
}

// IssueWithTTL signs a token of the given kind with an explicit lifetime.
func (s *TokenService) IssueWithTTL(p *domain.Principal, kind domain.TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TenantID: p.TenantID.String(),
		Role:     string(p.Role),
		Kind:     string(kind),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.Secret)
}

// IssuePair signs a fresh access and refresh token pair for the principal.
func (s *TokenService) IssuePair(p *domain.Principal) (*domain.TokenPair, error) {
	access, err := s.Issue(p, domain.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Issue(p, domain.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.config.AccessTokenTTL.Seconds()),
	}, nil
}

// Decode verifies a token's signature and expiry and returns its claims.
// Failures map onto the domain token errors so callers can log the specific
// kind while surfacing a uniform unauthenticated signal.
func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidSignature
		}
		return s.config.Secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		default:
			return nil, domain.ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if _, err := claims.PrincipalID(); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	if _, err := claims.TenantUUID(); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}

package auth

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/comandero/comandero/pkg/domain"
)

const (
	maxEmailLength    = 254 // RFC 5321
	maxNameLength     = 255
	minPasswordLength = 8
)

// ValidateEmail validates an email address for format and length.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: email is too long (max %d characters)", domain.ErrInvalidEmail, maxEmailLength)
	}
	addr, err := mail.ParseAddress(NormalizeEmail(email))
	if err != nil || addr.Address != NormalizeEmail(email) {
		return domain.ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail normalizes an email address by lowercasing and trimming.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword checks length bounds. The upper bound is bcrypt's input
// limit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", domain.ErrWeakPassword, minPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must be at most %d characters", domain.ErrWeakPassword, MaxPasswordLength)
	}
	return nil
}

// ValidateName checks a required display-name field.
func ValidateName(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	if len(value) > maxNameLength {
		return fmt.Errorf("%w: %s is too long (max %d characters)", domain.ErrValidation, field, maxNameLength)
	}
	return nil
}

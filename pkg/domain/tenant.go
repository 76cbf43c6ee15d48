package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents a business. Every principal and audit entry belongs to
// exactly one tenant, and no query crosses tenant boundaries.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

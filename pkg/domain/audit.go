package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is an append-only record of a notable action within a tenant.
// PrincipalID is nil for system-initiated actions.
type AuditEntry struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	PrincipalID *uuid.UUID
	Action      string
	Timestamp   time.Time
}

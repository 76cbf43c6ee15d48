package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/comandero/comandero/pkg/domain"
)

// AuditRepository handles audit entry persistence. Entries are append-only;
// no update or delete path exists.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append records an audit entry for a tenant.
func (r *AuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (id, tenant_id, principal_id, action, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.TenantID, entry.PrincipalID, entry.Action, entry.Timestamp,
	)
	return err
}

// ListByTenant retrieves the most recent audit entries of a tenant, newest
// first.
func (r *AuditRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, tenant_id, principal_id, action, created_at
		FROM audit_entries
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.PrincipalID, &e.Action, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/comandero/comandero/pkg/domain"
)

// uniqueViolation is the Postgres error code raised when an insert breaks a
// unique constraint, here the (tenant_id, email) index. Duplicate
// registration races lose the insert and surface as ErrDuplicateEmail.
const uniqueViolation = "23505"

// PrincipalsRepository handles principal persistence. Every query takes a
// tenant ID and conjoins it with any other predicate, so a principal cannot
// be read or written without naming its tenant.
type PrincipalsRepository struct {
	db *sql.DB
}

// NewPrincipalsRepository creates a new principals repository.
func NewPrincipalsRepository(db *sql.DB) *PrincipalsRepository {
	return &PrincipalsRepository{db: db}
}

// Create creates a new principal.
func (r *PrincipalsRepository) Create(ctx context.Context, p *domain.Principal) error {
	return r.CreateTx(ctx, r.db, p)
}

// CreateTx creates a new principal within a transaction.
func (r *PrincipalsRepository) CreateTx(ctx context.Context, q Querier, p *domain.Principal) error {
	query := `
		INSERT INTO principals (id, tenant_id, email, full_name, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.ExecContext(ctx, query,
		p.ID, p.TenantID, p.Email, p.FullName, p.PasswordHash, p.Role, p.IsActive, p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

// GetByID retrieves a principal by (tenant, id). An ID held by a different
// tenant is indistinguishable from a missing one.
func (r *PrincipalsRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Principal, error) {
	query := `
		SELECT id, tenant_id, email, full_name, password_hash, role, is_active, created_at
		FROM principals
		WHERE id = $1 AND tenant_id = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id, tenantID))
}

// GetByEmail retrieves a principal by (tenant, email).
func (r *PrincipalsRepository) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.Principal, error) {
	query := `
		SELECT id, tenant_id, email, full_name, password_hash, role, is_active, created_at
		FROM principals
		WHERE email = $1 AND tenant_id = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email, tenantID))
}

// GetByLoginEmail resolves an email across all tenants, preferring the
// earliest-created principal. Login is the only caller: no tenant context
// exists before credentials are verified.
func (r *PrincipalsRepository) GetByLoginEmail(ctx context.Context, email string) (*domain.Principal, error) {
	query := `
		SELECT id, tenant_id, email, full_name, password_hash, role, is_active, created_at
		FROM principals
		WHERE email = $1
		ORDER BY created_at ASC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// ListByTenant retrieves all principals of a tenant ordered by creation
// time.
func (r *PrincipalsRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Principal, error) {
	query := `
		SELECT id, tenant_id, email, full_name, password_hash, role, is_active, created_at
		FROM principals
		WHERE tenant_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var principals []*domain.Principal
	for rows.Next() {
		var p domain.Principal
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.Email, &p.FullName, &p.PasswordHash, &p.Role, &p.IsActive, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		principals = append(principals, &p)
	}
	return principals, rows.Err()
}

// Update updates a principal's mutable fields.
func (r *PrincipalsRepository) Update(ctx context.Context, p *domain.Principal) error {
	query := `
		UPDATE principals
		SET email = $3, full_name = $4, password_hash = $5, role = $6, is_active = $7
		WHERE id = $1 AND tenant_id = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		p.ID, p.TenantID, p.Email, p.FullName, p.PasswordHash, p.Role, p.IsActive,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetActive flips the active flag of a tenant's principal.
func (r *PrincipalsRepository) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) error {
	query := `
		UPDATE principals
		SET is_active = $3
		WHERE id = $1 AND tenant_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, tenantID, active)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete permanently removes a tenant's principal.
func (r *PrincipalsRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `DELETE FROM principals WHERE id = $1 AND tenant_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// CountOwners counts a tenant's owner principals.
func (r *PrincipalsRepository) CountOwners(ctx context.Context, tenantID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM principals WHERE tenant_id = $1 AND role = $2`
	var n int
	err := r.db.QueryRowContext(ctx, query, tenantID, domain.RoleOwner).Scan(&n)
	return n, err
}

func (r *PrincipalsRepository) scanOne(row *sql.Row) (*domain.Principal, error) {
	var p domain.Principal
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Email, &p.FullName, &p.PasswordHash, &p.Role, &p.IsActive, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

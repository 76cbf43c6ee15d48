package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a principal can hold within its tenant.
// Adding a role is a schema change, not a runtime value.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
	RoleWaiter  Role = "waiter"
	RoleCook    Role = "cook"
)

// roleRank orders roles from most to least privileged.
var roleRank = map[Role]int{
	RoleOwner:   5,
	RoleAdmin:   4,
	RoleCashier: 3,
	RoleWaiter:  2,
	RoleCook:    1,
}

// ParseRole converts a string into a Role, rejecting anything outside the
// closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

// IsValid reports whether the role belongs to the closed set.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// CanManage reports whether a principal holding this role may manage a
// principal holding target. Management requires a strictly higher rank, so
// nobody manages peers and owners cannot be managed at all.
func (r Role) CanManage(target Role) bool {
	return roleRank[r] > roleRank[target]
}

// Principal represents a user account owned by a tenant. Email is unique per
// tenant, not globally.
type Principal struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}

package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role determines what a staff member may do. Managers and admins can mutate
// coupons, rewards, and the program configuration; plain staff only operate
// the day-to-day flows.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Staff is a back-office account. Customers never log in; they are tracked
// through the loyalty ledger only.
type Staff struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

package user

import (
	"time"

	"github.com/google/uuid"
)

// Role controls what a user may do: admins manage products, stock,
// payouts and discounts; cashiers run checkouts.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// User is a staff account. Accounts are deactivated, never deleted, so
// sales keep a valid cashier reference.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	FullName     string    `json:"full_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

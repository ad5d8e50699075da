package user

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository defines user data storage.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidCredentials covers unknown username, wrong password and
// deactivated accounts alike, so callers cannot probe which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the capability token handed to the presentation layer after
// a successful login. It is never persisted.
type Session struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	FullName string    `json:"full_name"`
}

// IsAdmin reports whether the session may perform admin-gated actions
// (discounts, stock management, payouts, user management).
func (s Session) IsAdmin() bool { return s.Role == "admin" }

// Service defines the authentication gate.
type Service interface {
	// Login verifies the credentials and returns the session plus a signed
	// token encoding it.
	Login(ctx context.Context, username, password string) (Session, string, error)

	// Verify parses and validates a token issued by Login.
	Verify(token string) (Session, error)
}

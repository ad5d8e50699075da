package user

import "context"

// CreateUserRequest is the payload for registering a staff account.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// Service defines user management business logic.
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, newPassword string) error
}

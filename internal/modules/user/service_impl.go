package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct{ repo Repository }

// NewService creates a user service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	username := strings.TrimSpace(strings.ToLower(req.Username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	role := Role(strings.ToLower(req.Role))
	if role != RoleAdmin && role != RoleCashier {
		return nil, fmt.Errorf("invalid role %q (allowed: admin, cashier)", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		FullName:     strings.TrimSpace(req.FullName),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *service) Reactivate(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, true)
}

func (s *service) ChangePassword(ctx context.Context, id, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ricemill/pos-backend/internal/modules/user"
)

const tokenTTL = 12 * time.Hour

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	jwt.StandardClaims
}

type service struct {
	userRepo user.Repository
	secret   []byte
}

// dummyHash is compared against when the username does not resolve to a
// usable account, so failed logins cost the same bcrypt work whether or
// not the username exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// NewService creates an auth service.
func NewService(userRepo user.Repository, secret []byte) Service {
	return &service{userRepo: userRepo, secret: secret}
}

func (s *service) Login(ctx context.Context, username, password string) (Session, string, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Session{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return Session{}, "", ErrInvalidCredentials
	}

	session := Session{
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		FullName: u.FullName,
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Username: session.Username,
		Role:     session.Role,
		FullName: session.FullName,
		StandardClaims: jwt.StandardClaims{
			Subject:   session.UserID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tokenTTL).Unix(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, "", fmt.Errorf("sign token: %w", err)
	}
	return session, signed, nil
}

func (s *service) Verify(tokenString string) (Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidCredentials
	}
	uid, err := uuid.Parse(c.Subject)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return Session{
		UserID:   uid,
		Username: c.Username,
		Role:     c.Role,
		FullName: c.FullName,
	}, nil
}

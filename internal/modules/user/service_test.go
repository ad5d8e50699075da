package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{users: map[string]*User{}} }

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context) ([]*User, error) {
	var out []*User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func TestCreateHashesPasswordAndLowercasesUsername(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	u, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "  Mary ",
		Password: "secret99",
		Role:     "Cashier",
		FullName: "Mary Banda",
	})
	require.NoError(t, err)
	assert.Equal(t, "mary", u.Username)
	assert.Equal(t, RoleCashier, u.Role)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "secret99", u.PasswordHash, "password is never stored in the clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret99")))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateUserRequest{Username: "x", Password: "short", Role: "cashier", FullName: "X"})
	require.Error(t, err, "short password rejected")

	_, err = svc.Create(context.Background(), CreateUserRequest{Username: "x", Password: "secret99", Role: "manager", FullName: "X"})
	require.Error(t, err, "unknown role rejected")

	_, err = svc.Create(context.Background(), CreateUserRequest{Username: "", Password: "secret99", Role: "cashier", FullName: "X"})
	require.Error(t, err)
}

func TestDeactivateAndChangePassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	u, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "sam", Password: "secret99", Role: "cashier", FullName: "Sam Phiri",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), u.ID.String()))
	assert.False(t, repo.users[u.ID.String()].IsActive)

	require.Error(t, svc.ChangePassword(context.Background(), u.ID.String(), "tiny"))
	require.NoError(t, svc.ChangePassword(context.Background(), u.ID.String(), "newsecret"))
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(repo.users[u.ID.String()].PasswordHash), []byte("newsecret")))
}

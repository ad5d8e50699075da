package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ricemill/pos-backend/internal/modules/user"
)

type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*user.User{}}
}

func (f *fakeUserRepo) add(t *testing.T, username, password string, role user.Role, active bool) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &user.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test " + username,
		Role:         role,
		IsActive:     active,
	}
	f.users[username] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	f.users[u.Username] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	for _, u := range f.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*user.User, error) {
	var out []*user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id string, hash string) error {
	u, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

var testSecret = []byte("test-secret")

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	u := repo.add(t, "admin", "admin123", user.RoleAdmin, true)
	svc := NewService(repo, testSecret)

	session, token, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.UserID)
	assert.Equal(t, "admin", session.Role)
	assert.True(t, session.IsAdmin())
	assert.NotEmpty(t, token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(t, "admin", "admin123", user.RoleAdmin, true)
	repo.add(t, "former", "secret99", user.RoleCashier, false)
	svc := NewService(repo, testSecret)

	// Unknown user, wrong password and deactivated account all return
	// the same error so a caller cannot probe which usernames exist.
	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "former", "secret99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDummyHashIsWellFormedBcrypt(t *testing.T) {
	// Failed lookups burn the same bcrypt cost as a real compare; that
	// only holds while the placeholder hash stays parseable.
	cost, err := bcrypt.Cost(dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.Error(t, bcrypt.CompareHashAndPassword(dummyHash, []byte("anything")))
}

func TestTokenRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(t, "cashier1", "pass1234", user.RoleCashier, true)
	svc := NewService(repo, testSecret)

	session, token, err := svc.Login(context.Background(), "cashier1", "pass1234")
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, session, got)
	assert.False(t, got.IsAdmin())
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(t, "cashier1", "pass1234", user.RoleCashier, true)
	svc := NewService(repo, testSecret)

	_, token, err := svc.Login(context.Background(), "cashier1", "pass1234")
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	other := NewService(repo, []byte("different-secret"))
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMiddlewareAndRoleGate(t *testing.T) {
	repo := newFakeUserRepo()
	repo.add(t, "admin", "admin123", user.RoleAdmin, true)
	repo.add(t, "cashier1", "pass1234", user.RoleCashier, true)
	svc := NewService(repo, testSecret)

	var seen Session
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		require.True(t, ok)
		seen = s
		w.WriteHeader(http.StatusOK)
	})
	protected := Middleware(svc)(inner)
	adminOnly := Middleware(svc)(RequireRole("admin")(inner))

	do := func(h http.Handler, token string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(protected, ""))
	assert.Equal(t, http.StatusUnauthorized, do(protected, "garbage"))

	_, cashierToken, err := svc.Login(context.Background(), "cashier1", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(protected, cashierToken))
	assert.Equal(t, "cashier1", seen.Username)
	assert.Equal(t, http.StatusForbidden, do(adminOnly, cashierToken))

	_, adminToken, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(adminOnly, adminToken))
}

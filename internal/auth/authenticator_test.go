package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acamposr/devjobs-be/internal/models"
)

// MockUserFinder is a mock of the UserFinder interface
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func newTestAuthenticator(t *testing.T, users UserFinder) *Authenticator {
	t.Helper()
	store, _ := newTestSessionStore(t, time.Hour)
	return NewAuthenticator(users, NewBcryptHasher(bcrypt.MinCost), store)
}

func TestLoginSuccess(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash("secret1")
	require.NoError(t, err)

	finder := new(MockUserFinder)
	finder.On("FindByEmail", mock.Anything, "a@x.com").
		Return(models.User{ID: "user-1", Email: "a@x.com", PasswordHash: hashed}, nil)

	a := newTestAuthenticator(t, finder)

	user, sessionID, err := a.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.PasswordHash)
	require.NotEmpty(t, sessionID)

	userID, ok := a.IsAuthenticated(context.Background(), sessionID)
	assert.True(t, ok)
	assert.Equal(t, "user-1", userID)
}

func TestLoginUniformRejection(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash("secret1")
	require.NoError(t, err)

	finder := new(MockUserFinder)
	finder.On("FindByEmail", mock.Anything, "a@x.com").
		Return(models.User{ID: "user-1", Email: "a@x.com", PasswordHash: hashed}, nil)
	finder.On("FindByEmail", mock.Anything, "ghost@x.com").
		Return(models.User{}, models.ErrNotFound)

	a := newTestAuthenticator(t, finder)

	// Unknown account and wrong password are indistinguishable.
	_, _, errGhost := a.Login(context.Background(), "ghost@x.com", "whatever")
	_, _, errWrong := a.Login(context.Background(), "a@x.com", "wrong")

	assert.ErrorIs(t, errGhost, models.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, models.ErrInvalidCredentials)
	assert.Equal(t, errGhost.Error(), errWrong.Error())
}

func TestLogoutIdempotent(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hashed, err := hasher.Hash("secret1")
	require.NoError(t, err)

	finder := new(MockUserFinder)
	finder.On("FindByEmail", mock.Anything, "a@x.com").
		Return(models.User{ID: "user-1", Email: "a@x.com", PasswordHash: hashed}, nil)

	a := newTestAuthenticator(t, finder)

	_, sessionID, err := a.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, a.Logout(context.Background(), sessionID))

	_, ok := a.IsAuthenticated(context.Background(), sessionID)
	assert.False(t, ok)

	// Second logout is a no-op, not an error.
	assert.NoError(t, a.Logout(context.Background(), sessionID))
	assert.NoError(t, a.Logout(context.Background(), ""))
}

func TestIsAuthenticatedEmptySession(t *testing.T) {
	a := newTestAuthenticator(t, new(MockUserFinder))

	_, ok := a.IsAuthenticated(context.Background(), "")
	assert.False(t, ok)

	_, ok = a.IsAuthenticated(context.Background(), "never-created")
	assert.False(t, ok)
}

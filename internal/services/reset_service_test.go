package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/models"
)

// MockNotifier is a mock of the notify.Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, user models.User, subject, resetURL, template string) error {
	args := m.Called(ctx, user, subject, resetURL, template)
	return args.Error(0)
}

type resetFixture struct {
	users    *UserService
	hasher   *auth.BcryptHasher
	notifier *MockNotifier
	svc      *ResetService
	clock    *time.Time
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	users := NewUserService(newTestDB(t), hasher)
	notifier := new(MockNotifier)
	issuer := auth.NewTokenIssuerAt(func() time.Time { return *clock })

	svc := NewResetService(users, issuer, hasher, notifier, nil, "http://jobs.example")
	svc.now = func() time.Time { return *clock }

	return &resetFixture{users: users, hasher: hasher, notifier: notifier, svc: svc, clock: clock}
}

func (f *resetFixture) register(t *testing.T, email, password string) models.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), "Ana", email, password)
	require.NoError(t, err)
	return user
}

func (f *resetFixture) storedToken(t *testing.T, email string) string {
	t.Helper()
	user, err := f.users.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.True(t, user.HasActiveReset())
	return *user.ResetToken
}

func TestRequestResetUnknownEmail(t *testing.T) {
	f := newResetFixture(t)

	// Generic success: no error, and the notifier is never invoked.
	err := f.svc.RequestReset(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestResetIssuesAndNotifies(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "a@x.com", "secret1")

	var sentURL string
	f.notifier.On("Send", mock.Anything, mock.Anything, "Password Reset", mock.Anything, "reset").
		Run(func(args mock.Arguments) { sentURL = args.String(3) }).
		Return(nil).Once()

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	f.notifier.AssertExpectations(t)

	token := f.storedToken(t, "a@x.com")
	assert.Equal(t, "http://jobs.example/reestablecer-password/"+token, sentURL)
	assert.True(t, strings.HasSuffix(sentURL, token))

	user, err := f.users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.WithinDuration(t, f.clock.Add(time.Hour), *user.ResetExpires, time.Second)
}

func TestRequestResetNotifierFailure(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "a@x.com", "secret1")

	f.notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.ErrNotifierUnavailable).Once()

	err := f.svc.RequestReset(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, models.ErrNotifierUnavailable)
}

// stubUsers overrides individual store operations for ordering tests.
type stubUsers struct {
	UserServiceProvider
	findByEmail func(ctx context.Context, email string) (models.User, error)
	save        func(ctx context.Context, user models.User) error
}

func (s *stubUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findByEmail(ctx, email)
}

func (s *stubUsers) Save(ctx context.Context, user models.User) error {
	return s.save(ctx, user)
}

func TestRequestResetSaveBeforeNotify(t *testing.T) {
	notifier := new(MockNotifier)
	users := &stubUsers{
		findByEmail: func(ctx context.Context, email string) (models.User, error) {
			return models.User{ID: "user-1", Email: email}, nil
		},
		save: func(ctx context.Context, user models.User) error {
			return models.ErrStoreUnavailable
		},
	}

	svc := NewResetService(users, auth.NewTokenIssuer(), auth.NewBcryptHasher(bcrypt.MinCost), notifier, nil, "http://jobs.example")

	err := svc.RequestReset(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)

	// No link may go out for a token that was never persisted.
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateToken(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "a@x.com", "secret1")
	f.notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	token := f.storedToken(t, "a@x.com")

	t.Run("valid", func(t *testing.T) {
		user, err := f.svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
	})

	t.Run("wrong token", func(t *testing.T) {
		_, err := f.svc.ValidateToken(context.Background(), "0000000000000000000000000000000000000000")
		assert.ErrorIs(t, err, models.ErrTokenInvalidOrExpired)
	})

	t.Run("expired", func(t *testing.T) {
		*f.clock = f.clock.Add(time.Hour + time.Second)
		_, err := f.svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, models.ErrTokenInvalidOrExpired)
	})
}

func TestCompleteResetConsumesToken(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "a@x.com", "secret1")
	f.notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	token := f.storedToken(t, "a@x.com")

	require.NoError(t, f.svc.CompleteReset(context.Background(), token, "secret2"))

	user, err := f.users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, f.hasher.Verify("secret2", user.PasswordHash))
	assert.False(t, f.hasher.Verify("secret1", user.PasswordHash))
	assert.False(t, user.HasActiveReset(), "token fields must be cleared with the password update")

	// Single use: replaying the consumed token fails validation.
	err = f.svc.CompleteReset(context.Background(), token, "secret3")
	assert.ErrorIs(t, err, models.ErrTokenInvalidOrExpired)
}

func TestConcurrentRequestsLastTokenWins(t *testing.T) {
	f := newResetFixture(t)
	f.register(t, "a@x.com", "secret1")
	f.notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	first := f.storedToken(t, "a@x.com")

	require.NoError(t, f.svc.RequestReset(context.Background(), "a@x.com"))
	second := f.storedToken(t, "a@x.com")
	require.NotEqual(t, first, second)

	// The overwritten token no longer matches the stored one.
	err := f.svc.CompleteReset(context.Background(), first, "secret2")
	assert.ErrorIs(t, err, models.ErrTokenInvalidOrExpired)

	require.NoError(t, f.svc.CompleteReset(context.Background(), second, "secret2"))
}

func TestCompleteResetStoreError(t *testing.T) {
	notifier := new(MockNotifier)
	users := &stubUsers{
		findByEmail: func(ctx context.Context, email string) (models.User, error) {
			return models.User{}, errors.New("boom")
		},
	}

	svc := NewResetService(users, auth.NewTokenIssuer(), auth.NewBcryptHasher(bcrypt.MinCost), notifier, nil, "http://jobs.example")

	// Store failures propagate instead of masquerading as a bad token.
	err := svc.RequestReset(context.Background(), "a@x.com")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrTokenInvalidOrExpired)
}

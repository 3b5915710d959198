package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/acamposr/devjobs-be/internal/models"
)

// UserFinder is the slice of the user store the authenticator needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// Pre-computed digest of an empty password. Compared against when the email
// does not resolve to a user, so the miss path costs one bcrypt verify just
// like the hit path.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Authenticator verifies submitted credentials and manages the binding of
// sessions to users.
type Authenticator struct {
	users    UserFinder
	hasher   PasswordHasher
	sessions SessionStore
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users UserFinder, hasher PasswordHasher, sessions SessionStore) *Authenticator {
	return &Authenticator{users: users, hasher: hasher, sessions: sessions}
}

// Login verifies email and password and, on success, creates a session bound
// to the user. An unknown email and a wrong password report the identical
// ErrInvalidCredentials; nothing in the outcome reveals which one happened.
func (a *Authenticator) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Burn a verify anyway to keep timing symmetric with the
			// wrong-password path.
			a.hasher.Verify(password, dummyHash)
			return models.User{}, "", models.ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("credential lookup: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, "", models.ErrInvalidCredentials
	}

	sessionID, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return models.User{}, "", err
	}

	user.PasswordHash = ""
	return user, sessionID, nil
}

// IsAuthenticated returns the principal bound to sessionID, or ok=false if
// no valid binding exists.
func (a *Authenticator) IsAuthenticated(ctx context.Context, sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}
	userID, err := a.sessions.Read(ctx, sessionID)
	if err != nil {
		return "", false
	}
	return userID, true
}

// Logout destroys the session binding. Idempotent: logging out a session
// that is already gone succeeds.
func (a *Authenticator) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return a.sessions.Destroy(ctx, sessionID)
}

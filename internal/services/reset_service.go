package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/models"
	"github.com/acamposr/devjobs-be/internal/notify"
)

// ResetServiceProvider defines the interface for the password reset flow.
type ResetServiceProvider interface {
	RequestReset(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, token string) (models.User, error)
	CompleteReset(ctx context.Context, token, newPassword string) error
}

// ResetService orchestrates the forgot/reset password flow: issue a token,
// persist it on the user, mail a reset link, and later consume the token.
type ResetService struct {
	users    UserServiceProvider
	issuer   auth.TokenIssuer
	hasher   auth.PasswordHasher
	notifier notify.Notifier
	events   EventServiceProvider
	baseURL  string
	now      func() time.Time
}

// NewResetService creates a ResetService on the system clock.
func NewResetService(users UserServiceProvider, issuer auth.TokenIssuer, hasher auth.PasswordHasher, notifier notify.Notifier, events EventServiceProvider, baseURL string) *ResetService {
	return &ResetService{
		users:    users,
		issuer:   issuer,
		hasher:   hasher,
		notifier: notifier,
		events:   events,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// ResetURL builds the link embedded in the notification. The token is
// hex-encoded and therefore URL-safe as-is.
func (s *ResetService) ResetURL(token string) string {
	return fmt.Sprintf("%s/reestablecer-password/%s", s.baseURL, token)
}

// RequestReset issues a reset token for the account behind email. An unknown
// email returns nil without issuing anything, so the caller shows the same
// "check your email" outcome either way and account existence stays hidden.
// The token is persisted before the notifier runs: a link is never sent for
// a token that failed to save.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	token, expiresAt := s.issuer.Issue()
	user.ResetToken = &token
	user.ResetExpires = &expiresAt

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if err := s.notifier.Send(ctx, user, "Password Reset", s.ResetURL(token), "reset"); err != nil {
		return err
	}

	s.recordEvent("reset.request", "Password reset requested", user.ID)
	return nil
}

// ValidateToken returns the user holding token iff the token matches and has
// not expired. Wrong and expired tokens report the same
// ErrTokenInvalidOrExpired.
func (s *ResetService) ValidateToken(ctx context.Context, token string) (models.User, error) {
	user, err := s.users.FindByValidToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrTokenInvalidOrExpired
		}
		return models.User{}, err
	}
	return user, nil
}

// CompleteReset consumes the token: it re-validates it against the clock
// (time may have passed since an earlier validation), re-hashes the new
// password, and stores the hash while clearing both token fields in the same
// save. Replaying a consumed token fails validation.
func (s *ResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	user, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashed
	user.ResetToken = nil
	user.ResetExpires = nil

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.recordEvent("reset.complete", "Password reset completed", user.ID)
	return nil
}

func (s *ResetService) recordEvent(eventType, message, userID string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(eventType, "info", message, &userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

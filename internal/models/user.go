package models

import (
	"strings"
	"time"
)

// User represents an account on the job board.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"` // Never expose this to the client
	ResetToken   *string    `json:"-"`
	ResetExpires *time.Time `json:"-"`
	AvatarFile   *string    `json:"avatar,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NormalizeEmail canonicalizes an email for storage and lookup: trimmed and
// lowercased, so it matches the unique index on users.email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasActiveReset reports whether the user currently carries a reset token.
// Token and expiry are set and cleared together; seeing one without the
// other means the record is corrupt and is treated as no active reset.
func (u *User) HasActiveReset() bool {
	return u.ResetToken != nil && u.ResetExpires != nil
}

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Reset tokens carry 20 bytes of CSPRNG entropy and live for one hour.
const (
	tokenBytes = 20
	tokenTTL   = time.Hour
)

// TokenIssuer produces opaque password-reset tokens with an expiry.
type TokenIssuer interface {
	Issue() (token string, expiresAt time.Time)
}

// RandomTokenIssuer issues hex-encoded random tokens. The zero value is not
// usable; construct with NewTokenIssuer.
type RandomTokenIssuer struct {
	now func() time.Time
}

// NewTokenIssuer creates a RandomTokenIssuer on the system clock.
func NewTokenIssuer() *RandomTokenIssuer {
	return &RandomTokenIssuer{now: time.Now}
}

// NewTokenIssuerAt creates a RandomTokenIssuer on the given clock.
func NewTokenIssuerAt(now func() time.Time) *RandomTokenIssuer {
	return &RandomTokenIssuer{now: now}
}

// Issue returns a fresh opaque token and its absolute expiry, issue time
// plus one hour. The token is URL-safe by construction (hex).
func (i *RandomTokenIssuer) Issue() (string, time.Time) {
	buf := make([]byte, tokenBytes)
	// rand.Read never fails on supported platforms; it panics internally
	// if the kernel entropy source is broken, which is not recoverable.
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf), i.now().Add(tokenTTL)
}

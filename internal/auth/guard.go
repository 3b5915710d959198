package auth

import "github.com/acamposr/devjobs-be/internal/models"

// Guard enforces the single authorization rule of the system: only the
// author of a resource may mutate or delete it.
type Guard struct{}

// NewGuard creates a Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// Authorize returns nil iff principalID equals the resource's authorID.
// A missing author or principal denies rather than erroring: ambiguous
// ownership fails closed.
func (g *Guard) Authorize(authorID, principalID string) error {
	if authorID == "" || principalID == "" {
		return models.ErrForbidden
	}
	if authorID != principalID {
		return models.ErrForbidden
	}
	return nil
}

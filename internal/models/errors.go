package models

import "errors"

// Domain errors surfaced by the services. Handlers match these with
// errors.Is to pick a status code and a user-facing message.
//
// ErrInvalidCredentials and ErrTokenInvalidOrExpired deliberately carry no
// detail: whether an email exists, or whether a token was wrong versus
// expired, must not be distinguishable from the outside.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrDuplicateEmail        = errors.New("email is already registered")
	ErrTokenInvalidOrExpired = errors.New("reset link is invalid or has expired")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrNotifierUnavailable   = errors.New("notifier unavailable")
	ErrStoreUnavailable      = errors.New("store unavailable")
)

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/acamposr/devjobs-be/internal/models"
)

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// serviceError maps a domain error to an HTTP status and a user-facing
// message. The credential and token sentinels already carry deliberately
// generic messages, so their Error() text is safe to expose.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, models.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrTokenInvalidOrExpired):
		http.Error(w, models.ErrTokenInvalidOrExpired.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, models.ErrDuplicateEmail):
		http.Error(w, models.ErrDuplicateEmail.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, models.ErrNotifierUnavailable):
		http.Error(w, "Could not send notification, try again later", http.StatusServiceUnavailable)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

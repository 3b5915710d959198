package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/acamposr/devjobs-be/internal/services"
)

// ResetHandler handles the forgot/reset password endpoints.
type ResetHandler struct {
	service services.ResetServiceProvider
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(service services.ResetServiceProvider) *ResetHandler {
	return &ResetHandler{service: service}
}

// Request starts a password reset. The response is the same whether or not
// the email belongs to an account.
func (h *ResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Email == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}

	if err := h.service.RequestReset(r.Context(), payload.Email); err != nil {
		log.Error().Err(err).Msg("Failed to process reset request")
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Check your email for reset instructions",
	})
}

// Validate checks a reset token without consuming it, so the client can
// decide whether to show the new-password form.
func (h *ResetHandler) Validate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if _, err := h.service.ValidateToken(r.Context(), token); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Token is valid"})
}

// Complete consumes a reset token and sets the new password.
func (h *ResetHandler) Complete(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var payload struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Password == "" {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}

	if err := h.service.CompleteReset(r.Context(), token, payload.Password); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

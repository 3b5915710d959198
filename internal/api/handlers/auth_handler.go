package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/models"
	"github.com/acamposr/devjobs-be/internal/services"
)

// AuthHandler handles login, logout and the current-user endpoint.
type AuthHandler struct {
	authenticator *auth.Authenticator
	tokens        *auth.TokenManager
	users         services.UserServiceProvider
	events        services.EventServiceProvider
	isProd        bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authenticator *auth.Authenticator, tokens *auth.TokenManager, users services.UserServiceProvider, events services.EventServiceProvider, isProd bool) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		tokens:        tokens,
		users:         users,
		events:        events,
		isProd:        isProd,
	}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials, binds a session and sets the session cookie.
// Failed attempts get the same response whether the email exists or not.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, sessionID, err := h.authenticator.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("Login failed against the backing store")
		}
		serviceError(w, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, sessionID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   h.isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	if h.events != nil {
		_ = h.events.CreateEvent("user.login", "info", "Signed in", &user.ID)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout destroys the session binding and clears the cookie. Calling it for
// a session that is already gone still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err == nil {
		if err := h.authenticator.Logout(r.Context(), principal.SessionID); err != nil {
			log.Error().Err(err).Msg("Failed to destroy session")
			http.Error(w, "Failed to log out", http.StatusInternalServerError)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetMe retrieves the currently authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), principal.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", principal.UserID).Msg("User from session not found")
		serviceError(w, err)
		return
	}

	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}

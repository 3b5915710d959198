package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/services"
	"github.com/acamposr/devjobs-be/internal/storage"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service services.UserServiceProvider
	guard   *auth.Guard
	files   storage.FileStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, guard *auth.Guard, files storage.FileStore) *UserHandler {
	return &UserHandler{service: service, guard: guard, files: files}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new account creation.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Email == "" || payload.Password == "" || payload.Name == "" {
		http.Error(w, "Name, email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to register user")
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Update handles updating a user's profile. Users may only update
// themselves.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if err := h.guard.Authorize(id, principal.UserID); err != nil {
		serviceError(w, err)
		return
	}

	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), id, payload.Name, payload.Email)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to update user")
		serviceError(w, err)
		return
	}

	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}

// UploadAvatar stores a profile image for the user and records its filename.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if err := h.guard.Authorize(id, principal.UserID); err != nil {
		serviceError(w, err)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "Missing avatar file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename, err := h.files.SaveAvatar(file, header)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrBadFileType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user_id", id).Msg("Failed to store avatar")
		http.Error(w, "Failed to store avatar", http.StatusInternalServerError)
		return
	}

	if err := h.service.UpdateAvatar(r.Context(), id, filename); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to save avatar reference")
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"avatar": filename})
}

// ChangePassword handles changing a user's password. The current password
// must verify before the new one is accepted.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	if err := h.guard.Authorize(id, principal.UserID); err != nil {
		serviceError(w, err)
		return
	}

	var payload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.UpdatePassword(r.Context(), id, payload.CurrentPassword, payload.NewPassword); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to change password")
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

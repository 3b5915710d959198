package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/models"
	"github.com/acamposr/devjobs-be/internal/services"
	"github.com/acamposr/devjobs-be/internal/storage"
)

// JobHandler handles HTTP requests for job postings and applications.
type JobHandler struct {
	service services.JobServiceProvider
	files   storage.FileStore
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service services.JobServiceProvider, files storage.FileStore) *JobHandler {
	return &JobHandler{service: service, files: files}
}

// GetAll handles the request to list all postings.
func (h *JobHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.GetAllJobs(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve jobs")
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// Search handles the request to search postings.
func (h *JobHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "Missing search query", http.StatusBadRequest)
		return
	}

	jobs, err := h.service.SearchJobs(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Str("query", q).Msg("Failed to search jobs")
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetMine lists the postings authored by the authenticated user.
func (h *JobHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	jobs, err := h.service.GetJobsByAuthor(r.Context(), principal.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", principal.UserID).Msg("Failed to retrieve own jobs")
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// Get handles the request to get a single posting.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := h.service.GetJobByID(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// Create handles the request to publish a new posting. The authenticated
// user becomes the author.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateJob(r.Context(), job, principal.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create job")
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update handles the request to edit a posting. Author only.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateJob(r.Context(), id, job, principal.UserID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles the request to remove a posting. Author only.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	if err := h.service.DeleteJob(r.Context(), id, principal.UserID); err != nil {
		serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Apply records an application with an uploaded CV. No account is required
// to apply.
func (h *JobHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	name := r.FormValue("name")
	email := r.FormValue("email")
	if name == "" || email == "" {
		http.Error(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("cv")
	if err != nil {
		http.Error(w, "Missing CV file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename, err := h.files.SaveCV(file, header)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrBadFileType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("job_id", id).Msg("Failed to store CV")
		http.Error(w, "Failed to store CV", http.StatusInternalServerError)
		return
	}

	candidate, err := h.service.AddCandidate(r.Context(), id, name, email, filename)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, candidate)
}

// GetCandidates lists the applications on a posting. Author only.
func (h *JobHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	principal, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}

	candidates, err := h.service.GetCandidates(r.Context(), id, principal.UserID)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

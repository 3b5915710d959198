package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/models"
)

// JobServiceProvider defines the interface for job posting services.
type JobServiceProvider interface {
	GetAllJobs(ctx context.Context) ([]models.Job, error)
	GetJobByID(ctx context.Context, id string) (models.Job, error)
	GetJobsByAuthor(ctx context.Context, authorID string) ([]models.Job, error)
	SearchJobs(ctx context.Context, query string) ([]models.Job, error)
	CreateJob(ctx context.Context, job models.Job, authorID string) (models.Job, error)
	UpdateJob(ctx context.Context, id string, job models.Job, principalID string) (models.Job, error)
	DeleteJob(ctx context.Context, id, principalID string) error
	AddCandidate(ctx context.Context, jobID, name, email, cvFile string) (models.Candidate, error)
	GetCandidates(ctx context.Context, jobID, principalID string) ([]models.Candidate, error)
}

// JobService provides business logic for job postings. Every mutation is
// checked against the guard before the store is touched: only the author of
// a posting may change or delete it.
type JobService struct {
	db     *sql.DB
	guard  *auth.Guard
	events EventServiceProvider
}

// NewJobService creates a new JobService.
func NewJobService(db *sql.DB, guard *auth.Guard, events EventServiceProvider) *JobService {
	return &JobService{db: db, guard: guard, events: events}
}

const jobColumns = "id, title, company, location, salary, contract, skills_json, author_id, created_at"

// scanJob is a helper to scan a job from a row or rows object.
func scanJob(scanner interface{ Scan(...interface{}) error }) (models.Job, error) {
	var job models.Job
	var location, salary, contract, skills sql.NullString

	err := scanner.Scan(
		&job.ID, &job.Title, &job.Company, &location, &salary,
		&contract, &skills, &job.AuthorID, &job.CreatedAt,
	)
	if err != nil {
		return job, err
	}

	job.Location = location.String
	job.Salary = salary.String
	job.Contract = contract.String
	job.SkillsJSON = skills.String

	job.PrepareForAPI()
	return job, nil
}

func (s *JobService) queryJobs(ctx context.Context, query string, args ...interface{}) ([]models.Job, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// GetAllJobs retrieves all job postings, newest first.
func (s *JobService) GetAllJobs(ctx context.Context) ([]models.Job, error) {
	return s.queryJobs(ctx, "SELECT "+jobColumns+" FROM jobs ORDER BY created_at DESC")
}

// GetJobByID retrieves a single job posting by its ID.
func (s *JobService) GetJobByID(ctx context.Context, id string) (models.Job, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)
	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Job{}, models.ErrNotFound
		}
		return models.Job{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return job, nil
}

// GetJobsByAuthor retrieves the postings created by a user, for their
// administration panel.
func (s *JobService) GetJobsByAuthor(ctx context.Context, authorID string) ([]models.Job, error) {
	return s.queryJobs(ctx, "SELECT "+jobColumns+" FROM jobs WHERE author_id = ? ORDER BY created_at DESC", authorID)
}

// SearchJobs retrieves postings matching the query in title, company,
// location or skills.
func (s *JobService) SearchJobs(ctx context.Context, query string) ([]models.Job, error) {
	pattern := "%" + query + "%"
	return s.queryJobs(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE title LIKE ? OR company LIKE ? OR location LIKE ? OR skills_json LIKE ?
		ORDER BY created_at DESC`,
		pattern, pattern, pattern, pattern)
}

// CreateJob adds a new posting authored by authorID.
func (s *JobService) CreateJob(ctx context.Context, job models.Job, authorID string) (models.Job, error) {
	if authorID == "" {
		return models.Job{}, models.ErrForbidden
	}

	job.ID = uuid.New().String()
	job.AuthorID = authorID
	job.PrepareForSave()

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO jobs(id, title, company, location, salary, contract, skills_json, author_id)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Job{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, job.ID, job.Title, job.Company, job.Location, job.Salary, job.Contract, job.SkillsJSON, job.AuthorID)
	if err != nil {
		return models.Job{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	s.recordEvent("job.create", fmt.Sprintf("Posting '%s' published.", job.Title), authorID)
	return s.GetJobByID(ctx, job.ID)
}

// UpdateJob updates an existing posting after checking authorship.
func (s *JobService) UpdateJob(ctx context.Context, id string, job models.Job, principalID string) (models.Job, error) {
	existing, err := s.GetJobByID(ctx, id)
	if err != nil {
		return models.Job{}, err
	}
	if err := s.guard.Authorize(existing.AuthorID, principalID); err != nil {
		return models.Job{}, err
	}

	job.PrepareForSave()
	_, err = s.db.ExecContext(ctx, `
		UPDATE jobs SET title = ?, company = ?, location = ?, salary = ?, contract = ?, skills_json = ?
		WHERE id = ?`,
		job.Title, job.Company, job.Location, job.Salary, job.Contract, job.SkillsJSON, id)
	if err != nil {
		return models.Job{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return s.GetJobByID(ctx, id)
}

// DeleteJob removes a posting after checking authorship.
func (s *JobService) DeleteJob(ctx context.Context, id, principalID string) error {
	existing, err := s.GetJobByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(existing.AuthorID, principalID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	s.recordEvent("job.delete", fmt.Sprintf("Posting '%s' removed.", existing.Title), principalID)
	return nil
}

// AddCandidate records an application against a posting. Applying requires
// no account; the stored CV filename comes from the file store.
func (s *JobService) AddCandidate(ctx context.Context, jobID, name, email, cvFile string) (models.Candidate, error) {
	job, err := s.GetJobByID(ctx, jobID)
	if err != nil {
		return models.Candidate{}, err
	}

	candidate := models.Candidate{
		ID:     uuid.New().String(),
		JobID:  job.ID,
		Name:   name,
		Email:  models.NormalizeEmail(email),
		CVFile: cvFile,
	}

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO candidates(id, job_id, name, email, cv_file) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.Candidate{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	if _, err = stmt.ExecContext(ctx, candidate.ID, candidate.JobID, candidate.Name, candidate.Email, candidate.CVFile); err != nil {
		return models.Candidate{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	// The author sees new applications live on their panel.
	s.recordEvent("job.apply", fmt.Sprintf("New application for '%s'.", job.Title), job.AuthorID)
	return candidate, nil
}

// GetCandidates lists the applications on a posting, for its author only.
func (s *JobService) GetCandidates(ctx context.Context, jobID, principalID string) ([]models.Candidate, error) {
	job, err := s.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(job.AuthorID, principalID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, job_id, name, email, cv_file, created_at FROM candidates WHERE job_id = ? ORDER BY created_at DESC", jobID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.JobID, &c.Name, &c.Email, &c.CVFile, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *JobService) recordEvent(eventType, message, userID string) {
	if s.events == nil {
		return
	}
	if err := s.events.CreateEvent(eventType, "info", message, &userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}

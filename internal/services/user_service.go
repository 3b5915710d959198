package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acamposr/devjobs-be/internal/auth"
	"github.com/acamposr/devjobs-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByValidToken(ctx context.Context, token string, now time.Time) (models.User, error)
	Register(ctx context.Context, name, email, password string) (models.User, error)
	Save(ctx context.Context, user models.User) error
	UpdateProfile(ctx context.Context, id, name, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, id, filename string) error
	UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// UserService provides business logic for user accounts and is the
// persistent store behind authentication and password reset.
type UserService struct {
	db     *sql.DB
	hasher auth.PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher auth.PasswordHasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

const userColumns = "id, email, name, password_hash, reset_token, reset_expires_at, avatar_file, created_at"

// scanUser is a helper to scan a user from a row or rows object.
func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var resetToken, avatar sql.NullString
	var resetExpires sql.NullTime

	err := scanner.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&resetToken, &resetExpires, &avatar, &user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if resetToken.Valid {
		user.ResetToken = &resetToken.String
	}
	if resetExpires.Valid {
		user.ResetExpires = &resetExpires.Time
	}
	if avatar.Valid {
		user.AvatarFile = &avatar.String
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return user, nil
}

// FindByEmail retrieves a single user by their normalized email, including
// the password hash.
func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", models.NormalizeEmail(email))
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return user, nil
}

// FindByValidToken retrieves the user holding the given reset token,
// provided the token has not expired at the given instant. A mismatched and
// an expired token both report ErrNotFound; the caller learns whether the
// lookup succeeded, never why it failed.
func (s *UserService) FindByValidToken(ctx context.Context, token string, now time.Time) (models.User, error) {
	if token == "" {
		return models.User{}, models.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE reset_token = ?", token)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	if user.ResetExpires == nil || !user.ResetExpires.After(now) {
		return models.User{}, models.ErrNotFound
	}
	return user, nil
}

// Register creates a new user, hashing their password.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        models.NormalizeEmail(email),
		Name:         name,
		PasswordHash: hashed,
	}

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO users(id, email, name, password_hash) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	if _, err = stmt.ExecContext(ctx, user.ID, user.Email, user.Name, user.PasswordHash); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Save writes the mutable credential fields of an existing user in a single
// statement, so a password change and a token clear land atomically.
func (s *UserService) Save(ctx context.Context, user models.User) error {
	stmt, err := s.db.PrepareContext(ctx, `
		UPDATE users SET email = ?, name = ?, password_hash = ?, reset_token = ?, reset_expires_at = ?, avatar_file = ?
		WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	var resetToken, avatar interface{}
	var resetExpires interface{}
	if user.ResetToken != nil {
		resetToken = *user.ResetToken
	}
	if user.ResetExpires != nil {
		resetExpires = user.ResetExpires.UTC()
	}
	if user.AvatarFile != nil {
		avatar = *user.AvatarFile
	}

	_, err = stmt.ExecContext(ctx, models.NormalizeEmail(user.Email), user.Name, user.PasswordHash, resetToken, resetExpires, avatar, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// UpdateProfile updates a user's non-sensitive information.
func (s *UserService) UpdateProfile(ctx context.Context, id, name, email string) (models.User, error) {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET name = ?, email = ? WHERE id = ?", name, models.NormalizeEmail(email), id)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return s.GetUserByID(ctx, id)
}

// UpdateAvatar records the stored filename of a user's profile image.
func (s *UserService) UpdateAvatar(ctx context.Context, id, filename string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET avatar_file = ? WHERE id = ?", filename, id)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// UpdatePassword verifies the current password, then hashes and sets a new
// password for a user.
func (s *UserService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	var currentHash string
	row := s.db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE id = ?", id)
	if err := row.Scan(&currentHash); err != nil {
		if err == sql.ErrNoRows {
			return models.ErrInvalidCredentials
		}
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	if !s.hasher.Verify(currentPassword, currentHash) {
		return models.ErrInvalidCredentials
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if _, err = s.db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hashed, id); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// ClearExpiredTokens removes reset tokens whose expiry has passed. The
// tokens are already unusable (FindByValidToken checks the expiry); this
// just keeps dead tokens from accumulating in the table.
func (s *UserService) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET reset_token = NULL, reset_expires_at = NULL
		WHERE reset_expires_at IS NOT NULL AND reset_expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return res.RowsAffected()
}

// isUniqueViolation detects SQLite unique-constraint failures on the email
// column. The driver exposes no typed error for this, so match the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

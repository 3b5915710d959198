package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload limits, carried over from the public site: applicant CVs are small
// PDFs, avatars are small images.
const (
	MaxCVSize     = 100 << 10 // 100 KB
	MaxAvatarSize = 500 << 10 // 500 KB
)

var (
	// ErrFileTooLarge rejects uploads over the per-kind size cap.
	ErrFileTooLarge = errors.New("file too large")
	// ErrBadFileType rejects uploads whose content type is not allowed.
	ErrBadFileType = errors.New("file type not allowed")
)

// FileStore persists uploaded files and hands back the stored filename.
type FileStore interface {
	SaveCV(file multipart.File, header *multipart.FileHeader) (string, error)
	SaveAvatar(file multipart.File, header *multipart.FileHeader) (string, error)
}

// DiskStore writes uploads under a base directory, CVs in cv/ and avatars
// in avatars/, with random filenames so uploads can never collide or
// traverse paths.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a DiskStore and ensures its subdirectories exist.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	for _, sub := range []string{"cv", "avatars"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// SaveCV stores an applicant's CV. PDF only, capped at MaxCVSize.
func (s *DiskStore) SaveCV(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxCVSize {
		return "", ErrFileTooLarge
	}
	if header.Header.Get("Content-Type") != "application/pdf" {
		return "", ErrBadFileType
	}
	return s.write(file, filepath.Join(s.baseDir, "cv"), ".pdf")
}

// SaveAvatar stores a profile image. JPEG or PNG, capped at MaxAvatarSize.
func (s *DiskStore) SaveAvatar(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxAvatarSize {
		return "", ErrFileTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	exts := map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
	}
	ext, ok := exts[strings.ToLower(contentType)]
	if !ok {
		return "", ErrBadFileType
	}
	return s.write(file, filepath.Join(s.baseDir, "avatars"), ext)
}

func (s *DiskStore) write(file multipart.File, dir, ext string) (string, error) {
	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return filename, nil
}

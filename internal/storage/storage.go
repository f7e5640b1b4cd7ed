// Package storage persists uploaded files outside the database.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// StorageClient abstracts where uploaded files live, so handlers do
// not care whether objects end up on local disk or a bucket.
type StorageClient interface {
	UploadFile(objectName string, fileData io.Reader) error
	DownloadFile(objectName string) (io.ReadCloser, int64, error)
	DeleteFile(objectName string) error
}

// LocalStorageClient stores objects as plain files under BaseDir.
type LocalStorageClient struct {
	BaseDir string
}

// NewLocalStorageClient creates a client rooted at UPLOAD_DIR, or
// "uploads-data" when unset.
func NewLocalStorageClient() (*LocalStorageClient, error) {
	baseDir := os.Getenv("UPLOAD_DIR")
	if baseDir == "" {
		baseDir = "uploads-data"
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}
	return &LocalStorageClient{BaseDir: baseDir}, nil
}

func (l *LocalStorageClient) path(objectName string) (string, error) {
	cleaned := filepath.Clean(objectName)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid object name: %s", objectName)
	}
	return filepath.Join(l.BaseDir, cleaned), nil
}

// UploadFile writes the object to disk, creating parent directories
// as needed.
func (l *LocalStorageClient) UploadFile(objectName string, fileData io.Reader) error {
	p, err := l.path(objectName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("failed to create object directory: %v", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create object file: %v", err)
	}
	if _, err := io.Copy(f, fileData); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write data to object: %v", err)
	}
	return f.Close()
}

// DownloadFile opens the object for reading and reports its size.
func (l *LocalStorageClient) DownloadFile(objectName string) (io.ReadCloser, int64, error) {
	p, err := l.path(objectName)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object: %v", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("failed to stat object: %v", err)
	}
	return f, info.Size(), nil
}

// DeleteFile removes the object. Deleting a missing object is not an
// error, so cleanup stays idempotent.
func (l *LocalStorageClient) DeleteFile(objectName string) error {
	p, err := l.path(objectName)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %v", err)
	}
	return nil
}

// ResumeObjectName builds the stored name for a resume upload.
func ResumeObjectName(originalFilename string) string {
	return fmt.Sprintf("resumes/%s-%s", uuid.NewString(), sanitizeFilename(originalFilename))
}

// UploadObjectName builds the stored name for a generic upload, such
// as a job posting image.
func UploadObjectName(originalFilename string) string {
	return fmt.Sprintf("uploads/%d_%s", time.Now().UnixMilli(), sanitizeFilename(originalFilename))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}

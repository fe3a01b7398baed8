// Package storage keeps uploaded submission files.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/campus-portal/portal-service/internal/config"
)

// FileStore saves an object under key and returns the URL it is reachable at.
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFileName strips directories and characters that are unsafe in object keys.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "upload"
	}
	return base
}

// SubmissionKey builds a unique object key for one uploaded file.
func SubmissionKey(studentCode string, assignmentID uint, fileName string) string {
	return fmt.Sprintf("submissions/%s/%d/%s-%s",
		SanitizeFileName(studentCode), assignmentID, uuid.NewString()[:8], SanitizeFileName(fileName))
}

// New picks the store named by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case "b2":
		return NewB2Storage(ctx, cfg.B2AccountID, cfg.B2AppKey, cfg.B2BucketName)
	case "local", "":
		return NewLocalStorage(cfg.UploadDir, "/uploads")
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

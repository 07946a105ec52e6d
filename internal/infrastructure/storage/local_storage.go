package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"chat-relay/internal/config"
)

// ErrObjectNotFound is returned when a stored file does not exist.
var ErrObjectNotFound = errors.New("stored file not found")

// LocalStorage keeps uploaded files in a directory on the local filesystem.
type LocalStorage struct {
	basePath string
	log      zerolog.Logger
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	logger := log.With().Str("component", "local-storage").Logger()

	basePath := strings.TrimSpace(cfg.UploadDir)
	if basePath == "" {
		return nil, errors.New("upload directory is not configured")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	logger.Info().Str("path", basePath).Msg("local storage initialized")

	return &LocalStorage{
		basePath: basePath,
		log:      logger,
	}, nil
}

func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.basePath, clean), nil
}

// Upload writes body to the file named by key.
func (l *LocalStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, body)
	if err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	l.log.Debug().
		Str("key", key).
		Str("content_type", contentType).
		Int64("bytes", written).
		Msg("file stored")

	return nil
}

// Download opens the file named by key. The content type is sniffed from the file header.
func (l *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectFile(fullPath); err == nil {
		contentType = mtype.String()
	}

	return file, contentType, nil
}

// Health checks that the upload directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	testFile := filepath.Join(l.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("upload directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}

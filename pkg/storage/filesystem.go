package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/collab-portal-api/pkg/config"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured size.
	ErrTooLarge = errors.New("file exceeds maximum size")
	// ErrUnsupportedType is returned when the sniffed content type is not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalStorage persists uploaded images on disk under a base directory.
type LocalStorage struct {
	baseDir      string
	publicPrefix string
	maxBytes     int64
	allowed      map[string]struct{}
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(cfg config.UploadsConfig) (*LocalStorage, error) {
	baseDir := cfg.Dir
	if baseDir == "" {
		baseDir = "./static/profile_photos"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mime := range cfg.AllowedMIMEs {
		allowed[strings.ToLower(mime)] = struct{}{}
	}
	return &LocalStorage{
		baseDir:      baseDir,
		publicPrefix: cfg.PublicPrefix,
		maxBytes:     cfg.MaxFileSizeBytes,
		allowed:      allowed,
	}, nil
}

// SaveImage stores the stream under a random name and returns its public path.
// The content type is sniffed from the bytes, never taken from the client.
func (s *LocalStorage) SaveImage(r io.Reader) (string, error) {
	limit := s.maxBytes
	if limit <= 0 {
		limit = 5 * 1024 * 1024
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return "", ErrTooLarge
	}

	mime := http.DetectContentType(data)
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	ext, known := extensions[mime]
	if _, ok := s.allowed[mime]; !ok || !known {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	if err := s.save(name, data); err != nil {
		return "", err
	}
	return path.Join("/", s.publicPrefix, name), nil
}

// Delete removes a stored file if present. Public paths are accepted.
func (s *LocalStorage) Delete(filename string) error {
	p, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

func (s *LocalStorage) save(filename string, data []byte) error {
	p, err := s.resolve(filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

// resolve maps a bare or public name onto the base dir, refusing traversal.
func (s *LocalStorage) resolve(filename string) (string, error) {
	name := path.Base(strings.TrimPrefix(filename, s.publicPrefix))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "", fmt.Errorf("invalid file name %q", filename)
	}
	return filepath.Join(s.baseDir, name), nil
}

package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/plumeblog/plume/pkg/config"
)

var (
	// ErrUnsupportedType is returned for files without an allowed image extension
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned when an upload exceeds the configured limit
	ErrTooLarge = errors.New("image exceeds upload limit")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ImageStore persists uploaded image blobs on local disk
type ImageStore struct {
	dir      string
	maxBytes int64
}

// NewImageStore creates the media directory if needed and returns a store
func NewImageStore(cfg *config.MediaConfig) (*ImageStore, error) {
	dir := filepath.Join(cfg.Dir, "blog", "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &ImageStore{
		dir:      dir,
		maxBytes: int64(cfg.MaxUploadKiB) * 1024,
	}, nil
}

// Save writes the uploaded content under a fresh name and returns the
// stored reference (relative to the media dir).
func (s *ImageStore) Save(originalName string, content io.Reader) (string, error) {
	name, err := storedName(originalName)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(dst.Name())
		return "", ErrTooLarge
	}

	return filepath.ToSlash(filepath.Join("blog", "images", name)), nil
}

// Open returns the stored image content for serving
func (s *ImageStore) Open(storedAs string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(storedAs)))
}

// storedName derives a collision-free on-disk name, keeping only the
// original extension.
func storedName(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return uuid.NewString() + ext, nil
}

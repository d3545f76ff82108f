package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when an image location does not exist.
var ErrNotFound = errors.New("image not found")

// ImageStore keeps at most one image per recipe. Put replaces any earlier
// version and returns the new location.
type ImageStore interface {
	Put(ctx context.Context, recipeID, contentType string, data []byte) (string, error)
	Get(ctx context.Context, location string) ([]byte, error)
	Delete(ctx context.Context, recipeID string) error
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Extension returns the file extension for an allowed image content type.
func Extension(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := extensions[ct]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	return ext, nil
}

// sanitizeTimestamp makes the timestamp safe for filenames.
func sanitizeTimestamp(ts time.Time) string {
	return strings.ReplaceAll(ts.UTC().Format(time.RFC3339Nano), ":", "-")
}

// versionedName returns the object name for a given recipe ID and version.
func versionedName(recipeID, ext string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.%s", recipeID, sanitizeTimestamp(ts), ext)
}

// FileStore provides file-based storage for recipe images.
type FileStore struct {
	basePath string
	now      func() time.Time
}

// NewFileStore creates a new FileStore and ensures the base directory exists.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath, now: time.Now}, nil
}

// Put stores a new image version for the recipe and removes older ones.
func (s *FileStore) Put(_ context.Context, recipeID, contentType string, data []byte) (string, error) {
	ext, err := Extension(contentType)
	if err != nil {
		return "", err
	}
	if err := s.RemoveStaleVersions(recipeID); err != nil {
		return "", err
	}

	name := versionedName(recipeID, ext, s.now())
	if err := os.WriteFile(filepath.Join(s.basePath, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return name, nil
}

// Get reads the image stored at location.
func (s *FileStore) Get(_ context.Context, location string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.Base(location)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}

// Delete removes every image version of the recipe.
func (s *FileStore) Delete(_ context.Context, recipeID string) error {
	return s.RemoveStaleVersions(recipeID)
}

// RemoveStaleVersions removes all files associated with a recipeID.
func (s *FileStore) RemoveStaleVersions(recipeID string) error {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_*", recipeID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("failed to glob stale files: %w", err)
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return fmt.Errorf("failed to remove stale file %s: %w", match, err)
		}
	}
	return nil
}

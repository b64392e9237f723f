// Package local implements the filesystem backing store. It also serves as
// the fallback store when the primary store is unreachable.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps asset payloads under a base directory, one subdirectory per
// asset id.
type Store struct {
	basePath string
}

// New creates a local store rooted at basePath (e.g. "data/uploads").
func New(basePath string) (*Store, error) {
	if basePath == "" {
		basePath = "data/uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// PutObject writes the payload to disk, creating parent directories as needed.
func (s *Store) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	fullPath := s.keyToPath(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// GetObject opens the payload for reading.
func (s *Store) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object not found: %s", key)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// DeleteObject removes the payload and, when possible, its now-empty parent
// directory.
func (s *Store) DeleteObject(ctx context.Context, key string) error {
	fullPath := s.keyToPath(key)

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete file: %w", err)
	}

	os.Remove(filepath.Dir(fullPath)) // fails harmlessly when not empty
	return nil
}

// ObjectExists checks whether the payload is on disk.
func (s *Store) ObjectExists(ctx context.Context, key string) (bool, error) {
	if _, err := os.Stat(s.keyToPath(key)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat file: %w", err)
	}
	return true, nil
}

// OriginURL returns the streaming API path for the object.
func (s *Store) OriginURL(ctx context.Context, key string, fileName string) (string, error) {
	assetID, _, _ := strings.Cut(key, "/")
	return fmt.Sprintf("/api/v1/media/file/%s/%s", assetID, fileName), nil
}

// Type returns "local".
func (s *Store) Type() string {
	return "local"
}

// BasePath returns the root directory of the store.
func (s *Store) BasePath() string {
	return s.basePath
}

func (s *Store) keyToPath(key string) string {
	return filepath.Join(s.basePath, key)
}

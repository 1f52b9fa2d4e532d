package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes images to a directory served by the HTTP server under
// /uploads. Development only.
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage returns local disk storage rooted at dir. baseURL is the
// externally visible server address; empty means relative URLs.
func NewLocalStorage(dir, baseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload writes data to dir/filename and returns its /uploads URL.
func (s *LocalStorage) Upload(_ context.Context, data []byte, filename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// filepath.Base guards against path traversal in the object name.
	name := filepath.Base(filename)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.baseURL, name), nil
}

// Delete removes the file if it exists.
func (s *LocalStorage) Delete(_ context.Context, filename string) error {
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}
	return nil
}

// Dir returns the directory local files are written to, for static serving.
func (s *LocalStorage) Dir() string {
	return s.dir
}

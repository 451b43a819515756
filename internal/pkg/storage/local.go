package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files under Dir and serves them from BaseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	absPath := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete ignores URLs that do not belong to this store and files already gone.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

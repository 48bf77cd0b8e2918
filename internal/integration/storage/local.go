// Package storage provides ReceiptStorage implementations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

// LocalStorage stores receipts on the local filesystem under a base directory.
type LocalStorage struct {
	baseDir       string
	publicBaseURL string
}

// NewLocalStorage creates a filesystem receipt store. publicBaseURL is the URL prefix
// under which baseDir is served.
func NewLocalStorage(baseDir, publicBaseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}
	return &LocalStorage{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Put writes data at key and returns its public URL.
func (s *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	full, clean, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}

	return s.publicBaseURL + "/" + clean, nil
}

// Delete removes the object at key. A missing object is not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	full, _, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	return nil
}

// resolve maps a storage key to a path inside baseDir and its cleaned form.
func (s *LocalStorage) resolve(key string) (string, string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if clean == "" {
		return "", "", fmt.Errorf("invalid receipt key %q", key)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), clean, nil
}

var _ adapter.ReceiptStorage = (*LocalStorage)(nil)

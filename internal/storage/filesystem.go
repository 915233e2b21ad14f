// Package storage persists exported deck documents on the local
// filesystem. An object store could back the same interface later; local
// disk is enough for single-node deployments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore reads and writes blobs under a single root directory.
type FileStore struct {
	root string
}

// NewFileStore ensures root exists and returns a store rooted there.
func NewFileStore(root string) (*FileStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure root: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Root returns the configured root directory.
func (s *FileStore) Root() string {
	if s == nil {
		return ""
	}
	return s.root
}

// Write persists data at the given relative key and returns the
// canonicalized key. Keys are cleaned so they cannot escape the root.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return clean, nil
}

// Read returns the contents stored at key.
func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("storage: read file: %w", err)
	}
	return data, nil
}

// sanitizeKey normalizes a key and rejects anything that would resolve
// outside the root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	clean := filepath.Clean(key)
	clean = strings.ReplaceAll(clean, "\\", "/")
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("storage: invalid key")
	}
	return clean, nil
}

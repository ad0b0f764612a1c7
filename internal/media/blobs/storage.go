// Package blobs provides filesystem storage for cover image blobs.
package blobs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage manages blob filesystem operations keyed by storage key.
// Thread-safe for concurrent operations. A key is an opaque filename
// such as "cover-abc123.jpg"; callers own key construction.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a new Storage instance rooted at {basePath}/covers/.
func NewStorage(basePath string) (*Storage, error) {
	return NewStorageWithSubdir(basePath, "covers")
}

// NewStorageWithSubdir creates a new Storage instance with a custom
// subdirectory under basePath. The directory is created if missing.
func NewStorageWithSubdir(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{
		basePath: storagePath,
	}, nil
}

// Put stores blob data under key. Writing the same key twice is allowed;
// content-addressed callers only ever write identical bytes, so a rewrite
// of matching content is skipped.
func (s *Storage) Put(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("blob data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(key)
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write blob file: %w", err)
	}

	return nil
}

// Get retrieves blob data for a key.
func (s *Storage) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found for %s: %w", key, err)
		}
		return nil, fmt.Errorf("failed to read blob file: %w", err)
	}

	return data, nil
}

// Exists checks if a blob exists for a key.
func (s *Storage) Exists(key string) bool {
	if validateKey(key) != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(key))
	return err == nil
}

// Delete removes a blob. Deleting a missing key is not an error.
func (s *Storage) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(key)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete blob file: %w", err)
	}

	return nil
}

// List returns the keys of all stored blobs.
func (s *Storage) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list blob directory: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		keys = append(keys, entry.Name())
	}

	return keys, nil
}

// Path returns the full filesystem path for a key.
func (s *Storage) Path(key string) string {
	return filepath.Join(s.basePath, key)
}

// validateKey rejects empty keys and keys that would escape the storage
// directory.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if strings.Contains(key, "/") || strings.Contains(key, "\\") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid blob key: %s", key)
	}
	return nil
}

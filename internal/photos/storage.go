package photos

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage manages the photo output directory.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex // Protects file operations
}

// NewStorage creates a Storage rooted at the given directory, creating it if
// needed. Photos are stored as {basePath}/{sku}.jpg.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}

	return &Storage{basePath: basePath}, nil
}

// Save stores the encoded photo for a SKU.
func (s *Storage) Save(sku string, data []byte) error {
	if sku == "" {
		return fmt.Errorf("SKU cannot be empty")
	}
	if len(data) == 0 {
		return fmt.Errorf("photo data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(sku), data, 0644); err != nil {
		return fmt.Errorf("failed to write photo file: %w", err)
	}
	return nil
}

// Exists checks whether a photo is already stored for a SKU.
func (s *Storage) Exists(sku string) bool {
	if sku == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(sku))
	return err == nil
}

// Delete removes the stored photo for a SKU. Missing files are not an error.
func (s *Storage) Delete(sku string) error {
	if sku == "" {
		return fmt.Errorf("SKU cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(sku)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete photo file: %w", err)
	}
	return nil
}

// Path returns the filesystem path for a SKU's photo. SKUs are sanitized so
// vendor identifiers with path characters cannot escape the directory.
func (s *Storage) Path(sku string) string {
	return filepath.Join(s.basePath, safeFilename(sku)+".jpg")
}

// safeFilename replaces characters outside [a-zA-Z0-9_.-] with underscores.
func safeFilename(s string) string {
	out := []byte(s)
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '_', c == '.', c == '-':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// Package store persists the product catalog as a single JSON file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fairyhunter13/demo-shop/internal/model"
)

// Sentinel errors for the two storage failure modes. Callers match them with
// errors.Is and map them to transport-level responses.
var (
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")
)

// FileStore reads and writes the whole catalog file on every call. There is
// no locking: concurrent saves are last-writer-wins. Acceptable for a
// single-operator admin tool, but a known race.
type FileStore struct {
	path string
}

// New returns a FileStore over the given file path.
func New(path string) *FileStore { return &FileStore{path: path} }

// Path returns the location of the catalog file.
func (s *FileStore) Path() string { return s.path }

// Load parses the full ordered product list from disk.
func (s *FileStore) Load() ([]model.Product, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	var products []model.Product
	if err := json.Unmarshal(b, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return products, nil
}

// Save overwrites the catalog file with the given list. The write goes to a
// temp file in the same directory followed by a rename, so a failed save
// leaves the previous contents intact.
func (s *FileStore) Save(products []model.Product) error {
	b, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".products-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// Package docstore stores raw uploaded documents on the filesystem.
package docstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store keeps uploaded documents under a single directory. File names
// are normalized to their base name so a document is always addressed
// by the name it was uploaded under.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk path for name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save writes the document content to disk and returns its normalized
// name and path.
func (s *Store) Save(name string, r io.Reader) (string, string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", "", fmt.Errorf("invalid document name %q", name)
	}
	path := filepath.Join(s.dir, base)

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		// A partial file is worse than no file.
		os.Remove(path)
		return "", "", fmt.Errorf("failed to write document file: %w", err)
	}

	return base, path, nil
}

// Remove deletes the document with the given name. Removing a missing
// document is not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove document file: %w", err)
	}
	return nil
}

// List returns the names of all stored documents, sorted. Hidden files
// and subdirectories are skipped.
func (s *Store) List() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read document directory: %w", err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoData is returned when the catalog file is missing or unreadable.
// Downstream commands wrap it into a "run scrape first" message.
var ErrNoData = errors.New("no scraped data available")

// Store persists a Catalog as a single JSON document at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the JSON document at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the JSON document.
func (s *Store) Path() string {
	return s.path
}

// Save writes the catalog, fully replacing any prior file. The document is
// written to a temporary file in the same directory and renamed into place
// so a crash never leaves a truncated catalog behind.
func (s *Store) Save(c *Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: failed to encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("catalog: failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("catalog: failed to write %q: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("catalog: failed to sync %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("catalog: failed to close %q: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("catalog: failed to replace %q: %w", s.path, err)
	}
	return nil
}

// Load reads the catalog from disk. A missing or unparsable file yields an
// error wrapping ErrNoData. For compatibility with older scrapes, a bare
// top-level JSON array is accepted and read as the agents list.
func (s *Store) Load() (*Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q does not exist", ErrNoData, s.path)
		}
		return nil, fmt.Errorf("catalog: failed to read %q: %w", s.path, err)
	}

	if isJSONArray(data) {
		var agents []AgentRecord
		if err := json.Unmarshal(data, &agents); err != nil {
			return nil, fmt.Errorf("%w: %q is not valid JSON: %v", ErrNoData, s.path, err)
		}
		return &Catalog{Agents: agents}, nil
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %q is not valid JSON: %v", ErrNoData, s.path, err)
	}
	return &c, nil
}

// isJSONArray reports whether the first non-whitespace byte opens an array.
func isJSONArray(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

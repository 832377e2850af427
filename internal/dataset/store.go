package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Store persists a Dataset to a single JSON file. The file is the sole
// source of truth: manual edits survive because every run loads it first.
type Store struct {
	path string
}

// NewStore creates a store bound to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the dataset from disk. A missing file yields a fresh empty
// dataset; an existing but unreadable or corrupt file is an error, since a
// run must not silently replace prior data with an empty structure.
func (s *Store) Load() (*Dataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	d.EnsureStats()
	return &d, nil
}

// Save stamps last_updated with the current UTC+8 time and overwrites the
// file with the full structure. All merging happens in memory before this.
func (s *Store) Save(d *Dataset) error {
	d.LastUpdated = time.Now().In(Taipei).Format(time.RFC3339)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep CJK titles and URLs readable
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

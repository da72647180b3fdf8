// Package state persists the record of what is currently synced to a
// destination volume.
//
// The store maps a track's persistent identifier to the
// destination-relative path its copy occupies. It is the source of
// truth for "is this track already on the destination", independent of
// the source library: entries are added after a successful copy and
// removed when a track leaves the plan or its file disappears.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrCorrupt reports a state document that exists but cannot be parsed.
var ErrCorrupt = errors.New("corrupt state document")

// Store is the persisted track-ID → destination-relative-path mapping
// for one destination volume.
//
// Load it once at the start of a run; Save rewrites the whole document.
// The engine saves at two points: after reconciliation, and after every
// individual successful copy, so a crash mid-run loses at most the
// in-flight file.
type Store struct {
	path    string
	entries map[string]string
}

// Load reads the store document at path. A missing file is an empty
// store, not an error; it is created on the first Save. An unreadable
// or malformed document returns an error wrapping ErrCorrupt.
func Load(path string) (*Store, error) {
	s := &Store{
		path:    path,
		entries: make(map[string]string),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return s, nil
}

// Save rewrites the full document, creating parent directories as
// needed.
func (s *Store) Save() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Set records the destination-relative path for a track.
func (s *Store) Set(id, relPath string) {
	s.entries[id] = relPath
}

// Delete removes a track's entry, if present.
func (s *Store) Delete(id string) {
	delete(s.entries, id)
}

// Path returns the destination-relative path recorded for a track.
func (s *Store) Path(id string) (string, bool) {
	rel, ok := s.entries[id]
	return rel, ok
}

// Has reports whether a track has an entry.
func (s *Store) Has(id string) bool {
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// IDs returns every recorded track identifier, sorted, so passes over
// the store are deterministic.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

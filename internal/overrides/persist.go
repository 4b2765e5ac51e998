// internal/overrides/persist.go
package overrides

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrStoreCorrupt marks an override file that could not be parsed. The
// engine recovers by continuing with the empty store Load returns
// alongside it; the error exists so the caller can log the loss.
var ErrStoreCorrupt = errors.New("override store corrupt")

// Load reads the store from path. A missing file yields an empty store
// with no error. A file that fails to parse yields an empty store and
// ErrStoreCorrupt; the engine keeps running either way.
func Load(path string) (*Store, error) {
	s := NewStore(path)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}

	var d data
	if err := json.Unmarshal(raw, &d); err != nil {
		return s, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	if d == nil {
		d = data{}
	}
	s.data = d
	return s, nil
}

// Save writes the store transactionally: marshal under the read lock,
// write to a temp file in the same directory, then rename over the
// target so no reader ever observes a partially written file.
func (s *Store) Save() error {
	s.mu.RLock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshalling override store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating override store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp override file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp override file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp override file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing override file: %w", err)
	}
	return nil
}

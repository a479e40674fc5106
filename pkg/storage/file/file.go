// Package file provides a storage.StateStore backed by a single JSON
// file. Writes go to a temporary file in the same directory followed
// by an atomic rename, so a crash mid-write cannot leave a truncated
// snapshot behind.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rhuss/kaffee/pkg/api"
	"github.com/rhuss/kaffee/pkg/storage"
)

// Store persists the machine snapshot to a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// Ensure Store implements storage.StateStore at compile time.
var _ storage.StateStore = (*Store)(nil)

// New creates a file store at the given path. Parent directories are
// created if missing. The file itself is created on the first Save.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: path must not be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}
	}
	return &Store{path: path}, nil
}

// Load reads and decodes the snapshot. A missing file maps to
// storage.ErrNotFound, an undecodable or invariant-violating file to
// storage.ErrCorrupt.
func (s *Store) Load(_ context.Context) (*api.MachineState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var state api.MachineState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", storage.ErrCorrupt, s.path, err)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
	}

	return &state, nil
}

// Save serializes the snapshot to a temporary file in the same
// directory, syncs it, and renames it over the target path.
func (s *Store) Save(_ context.Context, state *api.MachineState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding machine state: %w", err)
	}

	// The temp file must live in the target directory: rename is only
	// atomic within one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

// HealthCheck verifies the storage directory is accessible.
func (s *Store) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("storage directory: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *Store) Close() error {
	return nil
}

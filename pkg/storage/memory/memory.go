// Package memory provides an in-memory implementation of
// storage.StateStore for testing and ephemeral runs. The snapshot
// lives only for the lifetime of the process; Load after a restart is
// equivalent to "no snapshot found".
package memory

import (
	"context"
	"sync"

	"github.com/rhuss/kaffee/pkg/api"
	"github.com/rhuss/kaffee/pkg/storage"
)

// Store holds the machine snapshot in process memory.
type Store struct {
	mu    sync.RWMutex
	state *api.MachineState
}

// Ensure Store implements storage.StateStore at compile time.
var _ storage.StateStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Load returns a copy of the stored snapshot, or storage.ErrNotFound
// if nothing has been saved yet.
func (s *Store) Load(_ context.Context) (*api.MachineState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return nil, storage.ErrNotFound
	}
	return s.state.Clone(), nil
}

// Save stores a copy of the snapshot. Copies on both paths keep
// callers from mutating the stored value through retained pointers.
func (s *Store) Save(_ context.Context, state *api.MachineState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	return nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

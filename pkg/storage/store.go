package storage

import (
	"context"

	"github.com/rhuss/kaffee/pkg/api"
)

// StateStore persists the machine snapshot as one durable unit.
//
// Save must be atomic from the caller's perspective: a crash during
// Save leaves either the previous or the new snapshot readable on the
// next Load, never a mix of the two. Load must never return a
// partially written value; an undecodable snapshot surfaces as
// ErrCorrupt, a missing one as ErrNotFound. Any other error indicates
// the backing medium is unavailable.
type StateStore interface {
	// Load returns the current durable snapshot.
	Load(ctx context.Context) (*api.MachineState, error)

	// Save durably commits the snapshot, replacing any prior value.
	Save(ctx context.Context, state *api.MachineState) error

	// HealthCheck verifies the backing medium is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases any connections or resources.
	Close() error
}

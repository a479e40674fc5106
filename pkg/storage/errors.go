package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned by Load when no snapshot has been saved
	// yet. The engine treats it as first boot and initializes a
	// full-capacity machine.
	ErrNotFound = errors.New("machine state not found")

	// ErrCorrupt is returned by Load when a snapshot exists but cannot
	// be decoded or violates the container invariants. It requires
	// operator attention; the engine never silently replaces a corrupt
	// snapshot.
	ErrCorrupt = errors.New("machine state corrupt")
)

package observability

import (
	"context"
	"errors"
	"time"

	"github.com/rhuss/kaffee/pkg/api"
	"github.com/rhuss/kaffee/pkg/storage"
)

// InstrumentedStore decorates a storage.StateStore with the
// kaffee_storage_* metrics. It is transparent otherwise: errors and
// values pass through unchanged.
type InstrumentedStore struct {
	inner storage.StateStore
}

// Ensure InstrumentedStore implements storage.StateStore at compile time.
var _ storage.StateStore = (*InstrumentedStore)(nil)

// InstrumentStore wraps the given store with metrics recording.
func InstrumentStore(inner storage.StateStore) *InstrumentedStore {
	return &InstrumentedStore{inner: inner}
}

// Load delegates to the inner store and records outcome and latency.
func (s *InstrumentedStore) Load(ctx context.Context) (*api.MachineState, error) {
	start := time.Now()
	state, err := s.inner.Load(ctx)
	record("load", start, err)
	return state, err
}

// Save delegates to the inner store and records outcome and latency.
func (s *InstrumentedStore) Save(ctx context.Context, state *api.MachineState) error {
	start := time.Now()
	err := s.inner.Save(ctx, state)
	record("save", start, err)
	return err
}

// HealthCheck delegates to the inner store.
func (s *InstrumentedStore) HealthCheck(ctx context.Context) error {
	return s.inner.HealthCheck(ctx)
}

// Close delegates to the inner store.
func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}

func record(operation string, start time.Time, err error) {
	status := "ok"
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// First boot, not a failure.
		status = "not_found"
	case err != nil:
		status = "error"
	}
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

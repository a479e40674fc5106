// Package postgres provides a PostgreSQL implementation of
// storage.StateStore. The entire machine snapshot lives in one row of
// a fixed-schema table; Save is a transactional upsert, so there is
// never more than one row and never a zero-row window visible to a
// concurrent Load.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhuss/kaffee/pkg/api"
	"github.com/rhuss/kaffee/pkg/storage"
)

// stateRowID is the fixed primary key of the single snapshot row,
// enforced by a CHECK constraint in the schema.
const stateRowID = 1

// Store is a PostgreSQL-backed StateStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.StateStore at compile time.
var _ storage.StateStore = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Load reads the snapshot row. Zero rows map to storage.ErrNotFound;
// a row that violates the container invariants maps to storage.ErrCorrupt.
func (s *Store) Load(ctx context.Context) (*api.MachineState, error) {
	var state api.MachineState
	var lastMessage sql.NullString

	err := s.pool.QueryRow(ctx, `
		SELECT water_level, water_capacity, water_unit,
		       coffee_level, coffee_capacity, coffee_unit,
		       last_message
		FROM machine_state
		WHERE id = $1
	`, stateRowID).Scan(
		&state.Water.Level, &state.Water.Capacity, &state.Water.Unit,
		&state.Coffee.Level, &state.Coffee.Capacity, &state.Coffee.Unit,
		&lastMessage,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying machine state: %w", err)
	}

	state.Water.Name = api.ContainerWater
	state.Coffee.Name = api.ContainerCoffee
	if lastMessage.Valid {
		state.LastMessage = lastMessage.String
	}

	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
	}

	return &state, nil
}

// Save commits the snapshot as a single upsert on the fixed-id row.
func (s *Store) Save(ctx context.Context, state *api.MachineState) error {
	var lastMessage *string
	if state.LastMessage != "" {
		lastMessage = &state.LastMessage
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO machine_state (
			id, water_level, water_capacity, water_unit,
			coffee_level, coffee_capacity, coffee_unit,
			last_message, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			water_level     = EXCLUDED.water_level,
			water_capacity  = EXCLUDED.water_capacity,
			water_unit      = EXCLUDED.water_unit,
			coffee_level    = EXCLUDED.coffee_level,
			coffee_capacity = EXCLUDED.coffee_capacity,
			coffee_unit     = EXCLUDED.coffee_unit,
			last_message    = EXCLUDED.last_message,
			updated_at      = EXCLUDED.updated_at
	`,
		stateRowID,
		state.Water.Level, state.Water.Capacity, state.Water.Unit,
		state.Coffee.Level, state.Coffee.Capacity, state.Coffee.Unit,
		lastMessage, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting machine state: %w", err)
	}

	return nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

package machine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rhuss/kaffee/pkg/api"
	"github.com/rhuss/kaffee/pkg/storage"
	"github.com/rhuss/kaffee/pkg/transport"
)

// Engine satisfies the transport handler contract.
var _ transport.Machine = (*Engine)(nil)

// Config holds the container capacities used when no prior snapshot
// exists.
type Config struct {
	// WaterCapacityML is the water tank capacity (default: 2000).
	WaterCapacityML int

	// CoffeeCapacityG is the coffee hopper capacity (default: 500).
	CoffeeCapacityG int
}

// defaults applies default values for unset configuration fields.
func (c *Config) defaults() {
	if c.WaterCapacityML == 0 {
		c.WaterCapacityML = 2000
	}
	if c.CoffeeCapacityG == 0 {
		c.CoffeeCapacityG = 500
	}
}

// Engine applies brew and fill operations against the persisted
// machine snapshot. It caches the snapshot in memory after the first
// load and serializes all operations behind one mutex, so two
// concurrent brews can never both pass the sufficiency check against
// the same stale levels.
type Engine struct {
	store   storage.StateStore
	catalog Catalog
	cfg     Config

	mu    sync.Mutex
	state *api.MachineState // nil until first load
}

// New creates an Engine. The store must not be nil and the catalog
// must not be empty.
func New(store storage.StateStore, catalog Catalog, cfg Config) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("machine: store must not be nil")
	}
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("machine: catalog must not be empty")
	}
	cfg.defaults()
	if cfg.WaterCapacityML <= 0 || cfg.CoffeeCapacityG <= 0 {
		return nil, fmt.Errorf("machine: capacities must be positive (water %d ml, coffee %d g)",
			cfg.WaterCapacityML, cfg.CoffeeCapacityG)
	}
	return &Engine{
		store:   store,
		catalog: catalog,
		cfg:     cfg,
	}, nil
}

// Catalog returns the engine's recipe catalog.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Status returns a copy of the current snapshot, loading it from the
// store on first use. On first boot (no snapshot in the store) it
// initializes a full-capacity machine and persists it before
// returning.
func (e *Engine) Status(ctx context.Context) (*api.MachineState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.currentLocked(ctx)
	if err != nil {
		return nil, err
	}
	return cur.Clone(), nil
}

// Brew looks up the recipe, debits both containers atomically, and
// persists the new snapshot. On any error the machine state is
// unchanged, in memory and in the store. On success it reports the
// resources consumed.
func (e *Engine) Brew(ctx context.Context, recipeName string) (*api.MachineState, api.BrewUsage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var noUsage api.BrewUsage

	recipe, ok := e.catalog.Get(recipeName)
	if !ok {
		return nil, noUsage, &UnknownRecipeError{Name: recipeName}
	}

	cur, err := e.currentLocked(ctx)
	if err != nil {
		return nil, noUsage, err
	}

	// Check both containers before touching either, so the caller never
	// observes one debited and the other not.
	var shortfalls []Shortfall
	if cur.Water.Level < recipe.WaterML {
		shortfalls = append(shortfalls, Shortfall{
			Container: api.ContainerWater,
			Required:  recipe.WaterML,
			Available: cur.Water.Level,
			Unit:      cur.Water.Unit,
		})
	}
	if cur.Coffee.Level < recipe.CoffeeG {
		shortfalls = append(shortfalls, Shortfall{
			Container: api.ContainerCoffee,
			Required:  recipe.CoffeeG,
			Available: cur.Coffee.Level,
			Unit:      cur.Coffee.Unit,
		})
	}
	if len(shortfalls) > 0 {
		return nil, noUsage, &InsufficientResourceError{Recipe: recipeName, Shortfalls: shortfalls}
	}

	next := cur.Clone()
	next.Water.Level -= recipe.WaterML
	next.Coffee.Level -= recipe.CoffeeG
	next.LastMessage = fmt.Sprintf("%s is ready!", recipe.DisplayName())

	if err := e.commitLocked(ctx, next); err != nil {
		return nil, noUsage, err
	}
	return next.Clone(), api.BrewUsage{WaterML: recipe.WaterML, CoffeeG: recipe.CoffeeG}, nil
}

// Fill adds the given amount to one container and persists the new
// snapshot. On any error the machine state is unchanged.
func (e *Engine) Fill(ctx context.Context, kind api.ContainerKind, amount int) (*api.MachineState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.currentLocked(ctx)
	if err != nil {
		return nil, err
	}

	c := cur.Container(kind)
	if c == nil {
		return nil, fmt.Errorf("machine: unknown container %q", kind)
	}

	if amount <= 0 {
		return nil, &InvalidAmountError{Container: kind, Amount: amount}
	}
	if free := c.FreeSpace(); amount > free {
		return nil, &OverflowError{Container: kind, Amount: amount, MaxFill: free, Unit: c.Unit}
	}

	next := cur.Clone()
	target := next.Container(kind)
	target.Level += amount
	next.LastMessage = fmt.Sprintf("Added %d %s of %s.", amount, target.Unit, kind)

	if err := e.commitLocked(ctx, next); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// currentLocked returns the cached snapshot, loading or initializing
// it on first use. Callers must hold e.mu.
func (e *Engine) currentLocked(ctx context.Context) (*api.MachineState, error) {
	if e.state != nil {
		return e.state, nil
	}

	state, err := e.store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// First boot: initialize at full capacity and persist before
		// returning, so a restart right after sees the same snapshot.
		state = api.NewMachineState(e.cfg.WaterCapacityML, e.cfg.CoffeeCapacityG)
		if err := state.Validate(); err != nil {
			return nil, fmt.Errorf("machine: initial state: %w", err)
		}
		if err := e.store.Save(ctx, state); err != nil {
			return nil, &StorageError{Op: "save", Err: err}
		}
	case err != nil:
		return nil, &StorageError{Op: "load", Err: err}
	}

	e.state = state
	return e.state, nil
}

// commitLocked validates the mutated snapshot, persists it, and only
// then swaps it into the cache. A failed Save leaves both the cache
// and the store on the previous snapshot. Callers must hold e.mu.
func (e *Engine) commitLocked(ctx context.Context, next *api.MachineState) error {
	// Post-mutation check: a bug in capacity configuration or recipe
	// costs must never produce a negative or over-capacity container.
	if err := next.Validate(); err != nil {
		return fmt.Errorf("machine: refusing to commit invalid state: %w", err)
	}
	if err := e.store.Save(ctx, next); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	e.state = next
	return nil
}

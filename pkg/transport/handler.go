package transport

import (
	"context"

	"github.com/rhuss/kaffee/pkg/api"
)

// Machine is the handler contract the HTTP adapter dispatches to.
// All three operations return the machine snapshot after the operation,
// or a domain error describing why the state was left unchanged.
type Machine interface {
	// Status returns the current machine snapshot, initializing a
	// full-capacity machine on first use.
	Status(ctx context.Context) (*api.MachineState, error)

	// Brew prepares the named drink, debiting both containers. On
	// success it also reports the resources consumed.
	Brew(ctx context.Context, recipe string) (*api.MachineState, api.BrewUsage, error)

	// Fill adds amount units to the given container.
	Fill(ctx context.Context, container api.ContainerKind, amount int) (*api.MachineState, error)
}

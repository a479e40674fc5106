// Package machine implements the coffee machine engine: the fixed
// recipe catalog, the typed domain errors, and the Engine that applies
// brew and fill operations to the persisted snapshot.
//
// The Engine owns the in-memory snapshot for the lifetime of the
// process and delegates durability to a storage.StateStore. Every
// operation runs under a single mutex as one check-compute-commit
// sequence, and a mutation is acknowledged only after the store has
// committed it.
package machine

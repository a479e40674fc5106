// Package storage defines the persistence contract for the machine
// snapshot and the sentinel errors shared by all adapters.
//
// Three adapters implement StateStore: file (atomic JSON file),
// postgres (single-row table via pgx), and memory (process-local, for
// tests and ephemeral runs). The adapter is selected once at startup
// from configuration; the engine is otherwise backend-agnostic.
package storage

// Package api defines the wire-level data model of the coffee machine
// service: the persisted machine snapshot, the request and response
// schemas served over HTTP, and the structured API error format.
//
// The types in this package are shared between the machine engine, the
// storage adapters, and the transport layer. They carry no behavior
// beyond validation and copying; all state transitions live in
// pkg/machine.
package api

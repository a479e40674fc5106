// Package transport defines the contract between the HTTP layer and the
// machine engine, plus the cross-cutting middleware applied around it.
//
// The Machine interface is expressed purely in pkg/api types so that
// engine implementations can depend on this package without cycles.
// Concrete wire adapters live in subpackages (see transport/http).
package transport

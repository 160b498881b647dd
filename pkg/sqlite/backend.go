// Package sqlite provides the public API for the SQLite todo backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

// Option configures a backend created by NewBackend.
type Option = sqlite.Option

// WithLogger sets the logger the backend reports load and flush events to.
var WithLogger = sqlite.WithLogger

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".todos-db",
//	})
//	defer backend.Detach()
func NewBackend(opts ...Option) types.Backend {
	return sqlite.NewBackend(opts...)
}

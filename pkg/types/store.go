package types

import (
	"context"
	"errors"
)

// Store is the storage collaborator the engine reads and writes through.
// The engine never caches records itself; every mutation is followed by a
// FetchAll so callers always see the authoritative list.
type Store interface {
	// FetchAll returns every record and refreshes the local snapshot that
	// Lookup answers from.
	FetchAll(ctx context.Context) ([]Todo, error)

	// Lookup resolves an id against the last fetched snapshot without
	// touching storage. The returned record is a copy.
	Lookup(id string) (Todo, bool)

	// Get reads a fresh copy of one record from storage.
	// Returns ErrNotFound if no record exists with that id.
	Get(ctx context.Context, id string) (Todo, error)

	// Save creates or replaces a record. When todo.ID is empty a new UUID v7
	// is assigned and written back to todo. Returns the record id.
	Save(ctx context.Context, todo *Todo) (string, error)

	// Delete removes the record with the given id.
	// Returns ErrNotFound if no record exists with that id.
	Delete(ctx context.Context, id string) error
}

// Backend is a Store with an attach/detach lifecycle.
type Backend interface {
	Store

	// Attach connects to the backend described by config. Returns
	// ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach flushes pending writes and releases resources. Idempotent.
	// After Detach, store operations return ErrStoreDetached.
	Detach() error
}

// Lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Record errors.
var (
	ErrNotFound    = errors.New("todo not found")
	ErrInvalidID   = errors.New("invalid todo ID")
	ErrInvalidData = errors.New("invalid todo data")
)

// Edit and lifecycle errors.
var (
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrReadOnlyField     = errors.New("field is read-only")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidSortKey    = errors.New("invalid sort key")
)

// Link and delete errors.
var (
	ErrDeleteFailed = errors.New("delete failed")
	ErrDanglingLink = errors.New("linked sub-task does not resolve")
	ErrLinkCycle    = errors.New("link would create a cycle")
	ErrNotLinked    = errors.New("sub-task entry is not linked")
	ErrDeclined     = errors.New("operation declined")
)

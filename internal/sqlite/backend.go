// Package sqlite implements the todo storage backend. SQLite is the query
// engine and todos.jsonl in the data directory is the source of truth: the
// database is rebuilt from the JSONL file on every Attach and the file is
// rewritten atomically after writes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Compile-time interface check.
var _ types.Backend = (*Backend)(nil)

// Backend implements types.Backend on SQLite with JSONL persistence.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *log.Logger

	// snapshot is the record set as of the last FetchAll; Lookup reads it.
	snapshot map[string]types.Todo

	syncStrategy  string
	pendingWrites []pendingWrite
	batchMu       sync.Mutex // protects pendingWrites
}

// pendingWrite records a deferred JSONL rewrite under the on_close strategy.
type pendingWrite struct {
	operation string // "save" or "delete"
	id        string
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{snapshot: make(map[string]types.Todo)}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// Attach initializes the backend with the given configuration. It creates
// DataDir if needed, recreates the database file, and loads todos.jsonl.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is a derived index; start from a fresh file.
	dbPath := filepath.Join(dataDir, databaseDB)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return err
	}
	if err := ensureJSONL(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadTodosJSONL(ctx, db, dataDir, b.logger); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir
	b.syncStrategy = config.EffectiveSyncStrategy()
	b.pendingWrites = nil
	b.attached = true

	if _, err := b.fetchAllLocked(ctx); err != nil {
		b.attached = false
		b.db = nil
		db.Close()
		return err
	}
	b.logger.Debug("backend attached", "data_dir", dataDir, "sync", b.syncStrategy, "todos", len(b.snapshot))
	return nil
}

// Detach releases all resources held by the backend. Pending writes are
// flushed first. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushPendingWritesLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.snapshot = make(map[string]types.Todo)
	return nil
}

// generateUUID generates a new UUID v7 for record IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// shouldPersistImmediately reports whether each write rewrites the JSONL
// file at once.
func (b *Backend) shouldPersistImmediately() bool {
	return b.syncStrategy == types.SyncImmediate || b.syncStrategy == ""
}

// persist rewrites todos.jsonl now or queues the write, depending on the
// sync strategy. The caller must hold b.mu.
func (b *Backend) persist(ctx context.Context, operation, id string) error {
	if b.shouldPersistImmediately() {
		return b.persistTodosJSONL(ctx)
	}
	b.queueWrite(operation, id)
	return nil
}

// queueWrite adds a write to the pending queue. The caller must hold b.mu.
func (b *Backend) queueWrite(operation, id string) {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	b.pendingWrites = append(b.pendingWrites, pendingWrite{operation: operation, id: id})
}

// flushPendingWritesLocked rewrites todos.jsonl once if any writes are
// pending. The caller must hold b.mu write lock.
func (b *Backend) flushPendingWritesLocked() error {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	if len(b.pendingWrites) == 0 {
		return nil
	}
	if err := b.persistTodosJSONL(context.Background()); err != nil {
		last := b.pendingWrites[len(b.pendingWrites)-1]
		return fmt.Errorf("flush %d writes (last %s %s): %w", len(b.pendingWrites), last.operation, last.id, err)
	}
	b.logger.Debug("flushed pending writes", "count", len(b.pendingWrites))
	b.pendingWrites = nil
	return nil
}

// persistTodosJSONL writes every record to todos.jsonl atomically.
func (b *Backend) persistTodosJSONL(ctx context.Context) error {
	todos, err := b.queryAll(ctx)
	if err != nil {
		return err
	}
	records, err := encodeTodos(todos)
	if err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(b.config.DataDir, todosJSONL), records); err != nil {
		return fmt.Errorf("persisting %s: %w", todosJSONL, err)
	}
	return nil
}

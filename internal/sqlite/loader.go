package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// loadTodosJSONL reads todos.jsonl from dataDir and inserts every record
// into the database. Loading is transactional: all succeed or the database
// stays empty. Malformed lines and records without an id are skipped;
// unknown fields are ignored. A later line for the same id replaces an
// earlier one.
func loadTodosJSONL(ctx context.Context, db *sql.DB, dataDir string, logger *log.Logger) error {
	records, skipped, err := readJSONL(filepath.Join(dataDir, todosJSONL))
	if err != nil {
		return fmt.Errorf("reading %s: %w", todosJSONL, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	loaded := 0
	for _, rec := range records {
		var td types.Todo
		if err := json.Unmarshal(rec, &td); err != nil || td.ID == "" {
			skipped++
			continue
		}
		if td.Status == "" {
			td.Status = types.StatusIncomplete
		}
		if err := upsertTodo(ctx, tx, &td); err != nil {
			return fmt.Errorf("loading %s: %w", todosJSONL, err)
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	if skipped > 0 {
		logger.Warn("skipped malformed records", "file", todosJSONL, "count", skipped)
	}
	logger.Debug("loaded todos", "count", loaded)
	return nil
}

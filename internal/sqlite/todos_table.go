package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// FetchAll returns every record ordered by creation time and refreshes the
// snapshot used by Lookup.
func (b *Backend) FetchAll(ctx context.Context) ([]types.Todo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.fetchAllLocked(ctx)
}

func (b *Backend) fetchAllLocked(ctx context.Context) ([]types.Todo, error) {
	todos, err := b.queryAll(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(map[string]types.Todo, len(todos))
	for _, td := range todos {
		snap[td.ID] = td.Clone()
	}
	b.snapshot = snap
	return todos, nil
}

// Lookup resolves id against the last fetched snapshot.
func (b *Backend) Lookup(id string) (types.Todo, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	td, ok := b.snapshot[id]
	if !ok {
		return types.Todo{}, false
	}
	return td.Clone(), true
}

// Get reads one record from the database.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (b *Backend) Get(ctx context.Context, id string) (types.Todo, error) {
	if id == "" {
		return types.Todo{}, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Todo{}, types.ErrStoreDetached
	}

	row := b.db.QueryRowContext(ctx, "SELECT "+todoColumns+" FROM todos WHERE todo_id = ?", id)
	td, err := hydrateTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Todo{}, types.ErrNotFound
		}
		return types.Todo{}, fmt.Errorf("getting todo %s: %w", id, err)
	}
	subs, err := b.querySubTasks(ctx, "WHERE todo_id = ?", id)
	if err != nil {
		return types.Todo{}, err
	}
	td.SubTasks = subTasksOf(subs, id)
	return td, nil
}

// Save creates or replaces a record. An empty ID gets a UUID v7 and empty
// Created/LastUpdated stamps are filled in. The generated values are written
// back to td.
// Returns ErrInvalidData if td is nil or has an empty title.
func (b *Backend) Save(ctx context.Context, td *types.Todo) (string, error) {
	if td == nil || strings.TrimSpace(td.Title) == "" {
		return "", types.ErrInvalidData
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}

	if td.ID == "" {
		td.ID = generateUUID()
	}
	if td.Created == "" {
		td.Created = types.FormatTimestamp(time.Now())
	}
	if td.LastUpdated == "" {
		td.LastUpdated = td.Created
	}
	if td.Status == "" {
		td.Status = types.StatusIncomplete
	}
	if td.SubTasks == nil {
		td.SubTasks = []types.SubTaskRef{}
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertTodo(ctx, tx, td); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing todo: %w", err)
	}

	if err := b.persist(ctx, "save", td.ID); err != nil {
		return "", err
	}
	return td.ID, nil
}

// Delete removes a record and its sub-task rows. Entries in other records
// that link to it are left alone; link cleanup belongs to the caller.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (b *Backend) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	var exists bool
	err := b.db.QueryRowContext(ctx, "SELECT 1 FROM todos WHERE todo_id = ?", id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		return fmt.Errorf("checking todo existence: %w", err)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM subtasks WHERE todo_id = ?", id); err != nil {
		return fmt.Errorf("deleting sub-tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE todo_id = ?", id); err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing todo deletion: %w", err)
	}

	return b.persist(ctx, "delete", id)
}

// LinkedFrom returns the ids of records holding a linked sub-task entry
// for id, in id order.
func (b *Backend) LinkedFrom(ctx context.Context, id string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.QueryContext(ctx,
		"SELECT DISTINCT todo_id FROM subtasks WHERE link = 1 AND ref_id = ? ORDER BY todo_id", id)
	if err != nil {
		return nil, fmt.Errorf("querying links to %s: %w", id, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var from string
		if err := rows.Scan(&from); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		ids = append(ids, from)
	}
	return ids, rows.Err()
}

// queryAll reads every record with its sub-tasks. The caller must hold b.mu.
func (b *Backend) queryAll(ctx context.Context) ([]types.Todo, error) {
	rows, err := b.db.QueryContext(ctx, "SELECT "+todoColumns+" FROM todos ORDER BY created, todo_id")
	if err != nil {
		return nil, fmt.Errorf("fetching todos: %w", err)
	}
	defer rows.Close()

	todos := []types.Todo{}
	for rows.Next() {
		td, err := hydrateTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating todo: %w", err)
		}
		todos = append(todos, td)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}

	subs, err := b.querySubTasks(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range todos {
		todos[i].SubTasks = subTasksOf(subs, todos[i].ID)
	}
	return todos, nil
}

// querySubTasks reads sub-task rows and groups them by owning todo, in
// position order.
func (b *Backend) querySubTasks(ctx context.Context, where string, args ...any) (map[string][]types.SubTaskRef, error) {
	query := "SELECT todo_id, link, ref_id, name FROM subtasks"
	if where != "" {
		query += " " + where
	}
	query += " ORDER BY todo_id, position"

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sub-tasks: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]types.SubTaskRef)
	for rows.Next() {
		var todoID string
		var ref types.SubTaskRef
		var link int
		if err := rows.Scan(&todoID, &link, &ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scanning sub-task: %w", err)
		}
		ref.Link = link != 0
		out[todoID] = append(out[todoID], ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sub-tasks: %w", err)
	}
	return out, nil
}

// subTasksOf returns the entries of id, never nil.
func subTasksOf(subs map[string][]types.SubTaskRef, id string) []types.SubTaskRef {
	if refs, ok := subs[id]; ok {
		return refs
	}
	return []types.SubTaskRef{}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateTodo scans one todos row in todoColumns order.
func hydrateTodo(row scanner) (types.Todo, error) {
	var td types.Todo
	var status string
	err := row.Scan(
		&td.ID, &td.Title, &td.Description, &td.Type, &td.Priority, &status,
		&td.Created, &td.LastUpdated,
		&td.ProposedStartDate, &td.ProposedEndDate, &td.ActualStartDate, &td.ActualEndDate,
		&td.ParentTask,
	)
	if err != nil {
		return types.Todo{}, err
	}
	td.Status = types.Status(status)
	return td, nil
}

// upsertTodo writes td and replaces its sub-task rows.
func upsertTodo(ctx context.Context, tx *sql.Tx, td *types.Todo) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO todos (`+todoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(todo_id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			type = excluded.type,
			priority = excluded.priority,
			status = excluded.status,
			created = excluded.created,
			last_updated = excluded.last_updated,
			proposed_start_date = excluded.proposed_start_date,
			proposed_end_date = excluded.proposed_end_date,
			actual_start_date = excluded.actual_start_date,
			actual_end_date = excluded.actual_end_date,
			parent_task = excluded.parent_task`,
		td.ID, td.Title, td.Description, td.Type, td.Priority, string(td.Status),
		td.Created, td.LastUpdated,
		td.ProposedStartDate, td.ProposedEndDate, td.ActualStartDate, td.ActualEndDate,
		td.ParentTask,
	)
	if err != nil {
		return fmt.Errorf("persisting todo %s: %w", td.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM subtasks WHERE todo_id = ?", td.ID); err != nil {
		return fmt.Errorf("clearing sub-tasks of %s: %w", td.ID, err)
	}
	for i, st := range td.SubTasks {
		link := 0
		if st.Link {
			link = 1
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO subtasks (todo_id, position, link, ref_id, name) VALUES (?, ?, ?, ?, ?)",
			td.ID, i, link, st.ID, st.Name,
		)
		if err != nil {
			return fmt.Errorf("inserting sub-task %d of %s: %w", i, td.ID, err)
		}
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema DDL. The todos table mirrors the persisted record; subtasks holds
// the ordered sub-task entries, one row per position.
const (
	createTodos = `CREATE TABLE todos (
    todo_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    created TEXT NOT NULL,
    last_updated TEXT NOT NULL,
    proposed_start_date TEXT NOT NULL DEFAULT '',
    proposed_end_date TEXT NOT NULL DEFAULT '',
    actual_start_date TEXT NOT NULL DEFAULT '',
    actual_end_date TEXT NOT NULL DEFAULT '',
    parent_task TEXT NOT NULL DEFAULT ''
);`

	createSubTasks = `CREATE TABLE subtasks (
    todo_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    link INTEGER NOT NULL,
    ref_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (todo_id, position),
    FOREIGN KEY (todo_id) REFERENCES todos(todo_id)
);`

	createIndexTodosCreated = `CREATE INDEX idx_todos_created ON todos(created);`
	createIndexTodosParent  = `CREATE INDEX idx_todos_parent ON todos(parent_task);`
	createIndexSubTasksRef  = `CREATE INDEX idx_subtasks_ref ON subtasks(ref_id) WHERE link = 1;`
)

var schemaStatements = []string{
	createTodos,
	createSubTasks,
	createIndexTodosCreated,
	createIndexTodosParent,
	createIndexSubTasksRef,
}

// todoColumns is the column list shared by every todos query, in scan order.
const todoColumns = "todo_id, title, description, type, priority, status, created, last_updated, " +
	"proposed_start_date, proposed_end_date, actual_start_date, actual_end_date, parent_task"

func createSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

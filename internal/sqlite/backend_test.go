// Tests for the SQLite todo backend.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todos/pkg/types"
)

func attachBackend(t *testing.T, dir string, strategy string) *Backend {
	t.Helper()
	b := NewBackend()
	err := b.Attach(types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dir,
		SyncStrategy: strategy,
	})
	require.NoError(t, err)
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database file created
	dbPath := filepath.Join(tmpDir, databaseDB)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("%s not created", databaseDB)
	}

	// Verify double attach fails
	err = b.Attach(config)
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SyncStrategy: "hourly"})
	assert.ErrorIs(t, err, types.ErrSyncStrategyUnknown)
}

func TestBackend_Detach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})

	err := b.Detach()
	if err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	err = b.Detach()
	if err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	ctx := context.Background()
	_, err = b.FetchAll(ctx)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.Get(ctx, "x")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.Save(ctx, &types.Todo{Title: "t"})
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, b.Delete(ctx, "x"), types.ErrStoreDetached)
	_, ok := b.Lookup("x")
	assert.False(t, ok)
}

func TestBackend_CRUD(t *testing.T) {
	ctx := context.Background()
	b := attachBackend(t, t.TempDir(), "")

	td := &types.Todo{Title: "Write report", Type: "Work", Priority: "high"}
	id, err := b.Save(ctx, td)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, td.ID)
	assert.NotEmpty(t, td.Created)
	assert.Equal(t, td.Created, td.LastUpdated)
	assert.Equal(t, types.StatusIncomplete, td.Status)

	got, err := b.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "Work", got.Type)
	assert.NotNil(t, got.SubTasks)
	assert.Empty(t, got.SubTasks)

	got.Title = "Write final report"
	got.SubTasks = []types.SubTaskRef{
		types.LabelRef("outline"),
		types.LinkRef("child-1"),
	}
	_, err = b.Save(ctx, &got)
	require.NoError(t, err)

	again, err := b.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Write final report", again.Title)
	assert.Equal(t, []types.SubTaskRef{types.LabelRef("outline"), types.LinkRef("child-1")}, again.SubTasks)

	require.NoError(t, b.Delete(ctx, id))
	_, err = b.Get(ctx, id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, b.Delete(ctx, id), types.ErrNotFound)
}

func TestBackend_FetchAllSubTasks(t *testing.T) {
	ctx := context.Background()
	b := attachBackend(t, t.TempDir(), "")

	records := []*types.Todo{
		{ID: "a", Title: "Move house", Created: "2024-01-01T00:00:00.000Z",
			SubTasks: []types.SubTaskRef{types.LinkRef("c"), types.LabelRef("Hire van"), types.LabelRef("Cancel internet")}},
		{ID: "b", Title: "Plain", Created: "2024-01-02T00:00:00.000Z"},
		{ID: "c", Title: "Pack books", Created: "2024-01-03T00:00:00.000Z", ParentTask: "a",
			SubTasks: []types.SubTaskRef{types.LabelRef("Boxes")}},
	}
	for _, td := range records {
		_, err := b.Save(ctx, td)
		require.NoError(t, err)
	}

	all, err := b.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []types.SubTaskRef{types.LinkRef("c"), types.LabelRef("Hire van"), types.LabelRef("Cancel internet")}, all[0].SubTasks)
	assert.NotNil(t, all[1].SubTasks)
	assert.Empty(t, all[1].SubTasks)
	assert.Equal(t, []types.SubTaskRef{types.LabelRef("Boxes")}, all[2].SubTasks)
}

func TestBackend_SaveValidation(t *testing.T) {
	ctx := context.Background()
	b := attachBackend(t, t.TempDir(), "")

	tests := []struct {
		name string
		todo *types.Todo
	}{
		{"nil record", nil},
		{"empty title", &types.Todo{}},
		{"blank title", &types.Todo{Title: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Save(ctx, tt.todo)
			assert.ErrorIs(t, err, types.ErrInvalidData)
		})
	}
}

func TestBackend_InvalidID(t *testing.T) {
	ctx := context.Background()
	b := attachBackend(t, t.TempDir(), "")

	_, err := b.Get(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)
	assert.ErrorIs(t, b.Delete(ctx, ""), types.ErrInvalidID)
}

func TestBackend_SaveKeepsExplicitID(t *testing.T) {
	ctx := context.Background()
	b := attachBackend(t, t.TempDir(), "")

	id, err := b.Save(ctx, &types.Todo{ID: "fixed-id", Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestBackend_FetchAllOrderAndSnapshot(t *testing.T) {
	ctx := context.Background()
	b := attachBackend(t, t.TempDir(), "")

	_, err := b.Save(ctx, &types.Todo{ID: "b", Title: "Second", Created: "2024-01-02T00:00:00.000Z"})
	require.NoError(t, err)
	_, err = b.Save(ctx, &types.Todo{ID: "a", Title: "First", Created: "2024-01-01T00:00:00.000Z"})
	require.NoError(t, err)

	// Lookup reads the snapshot, which only changes on FetchAll.
	_, ok := b.Lookup("a")
	assert.False(t, ok)

	all, err := b.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	got, ok := b.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "First", got.Title)

	// Lookup hands out copies.
	got.SubTasks = append(got.SubTasks, types.LabelRef("x"))
	again, _ := b.Lookup("a")
	assert.Empty(t, again.SubTasks)
}

func TestBackend_LinkedFrom(t *testing.T) {
	ctx := context.Background()
	b := attachBackend(t, t.TempDir(), "")

	_, err := b.Save(ctx, &types.Todo{ID: "child", Title: "Child"})
	require.NoError(t, err)
	_, err = b.Save(ctx, &types.Todo{ID: "p2", Title: "P2", SubTasks: []types.SubTaskRef{types.LinkRef("child")}})
	require.NoError(t, err)
	_, err = b.Save(ctx, &types.Todo{ID: "p1", Title: "P1", SubTasks: []types.SubTaskRef{
		types.LabelRef("child"), types.LinkRef("child"),
	}})
	require.NoError(t, err)

	ids, err := b.LinkedFrom(ctx, "child")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	ids, err = b.LinkedFrom(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBackend_ReattachRestoresRecords(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b1 := NewBackend()
	require.NoError(t, b1.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	_, err := b1.Save(ctx, &types.Todo{ID: "p", Title: "Parent", SubTasks: []types.SubTaskRef{
		types.LinkRef("c"), types.LabelRef("note"),
	}})
	require.NoError(t, err)
	_, err = b1.Save(ctx, &types.Todo{ID: "c", Title: "Child", ParentTask: "p"})
	require.NoError(t, err)
	require.NoError(t, b1.Detach())

	b2 := attachBackend(t, dir, "")
	all, err := b2.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	parent, err := b2.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []types.SubTaskRef{types.LinkRef("c"), types.LabelRef("note")}, parent.SubTasks)

	child, ok := b2.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, "p", child.ParentTask)
}

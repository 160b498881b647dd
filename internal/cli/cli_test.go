package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	t.Setenv("TODOS_CONFIG_DIR", "")
	t.Setenv("TODOS_DATA_DIR", "")
	t.Setenv("TODOS_PRIORITIES", "")
	t.Setenv("TODOS_DEFAULT_SORT", "")
	return env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// run executes the root command in-process and returns stdout and stderr.
func (e env) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := e.run(t, "", args...)
	require.NoError(t, err, "stderr: %s", errOut)
	return out
}

func (e env) add(t *testing.T, args ...string) string {
	t.Helper()
	return strings.TrimSpace(e.mustRun(t, append([]string{"add"}, args...)...))
}

func (e env) get(t *testing.T, id string) types.Todo {
	t.Helper()
	var td types.Todo
	require.NoError(t, json.Unmarshal([]byte(e.mustRun(t, "--json", "show", id)), &td))
	return td
}

func (e env) list(t *testing.T, args ...string) []types.Todo {
	t.Helper()
	var todos []types.Todo
	out := e.mustRun(t, append([]string{"list", "--format", "json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &todos))
	return todos
}

func titles(todos []types.Todo) []string {
	out := make([]string, len(todos))
	for i, td := range todos {
		out[i] = td.Title
	}
	return out
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "version")
	assert.Contains(t, out, "todos v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init")
	assert.Contains(t, out, "Todos initialized")

	for _, path := range []string{
		filepath.Join(e.configDir, "config.yaml"),
		filepath.Join(e.dataDir, "todos.jsonl"),
		filepath.Join(e.dataDir, "todos.db"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	data, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "data_dir: "+e.dataDir)

	// Running again is harmless.
	e.mustRun(t, "init")
}

func TestAddAndShow(t *testing.T) {
	e := newEnv(t)
	id := e.add(t, "--title", "Pay rent", "--type", "Home", "--priority", "HIGH", "--end", "2030-01-31")
	require.NotEmpty(t, id)

	td := e.get(t, id)
	assert.Equal(t, "Pay rent", td.Title)
	assert.Equal(t, "high", td.Priority)
	assert.Equal(t, types.StatusIncomplete, td.Status)
	assert.Equal(t, "2030-01-31T00:00:00.000Z", td.ProposedEndDate)

	out := e.mustRun(t, "show", id[:len(id)-2])
	assert.Contains(t, out, "Title:       Pay rent")
	assert.Contains(t, out, "next: Start!")
}

func TestAddRejectsInvalidPriority(t *testing.T) {
	e := newEnv(t)
	_, errOut, err := e.run(t, "", "add", "--title", "X", "--priority", "urgent")
	require.ErrorIs(t, err, types.ErrInvalidPriority)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Contains(t, errOut, "✗ Invalid Priority Entry")
	assert.Empty(t, e.list(t))
}

func TestListFilterSortAndFormats(t *testing.T) {
	e := newEnv(t)
	e.add(t, "--title", "Buy milk", "--type", "home", "--priority", "low")
	e.add(t, "--title", "Write report", "--type", "Work", "--priority", "high")
	e.add(t, "--title", "Call plumber", "--type", "home", "--priority", "medium")

	assert.Equal(t, []string{"Buy milk", "Call plumber", "Write report"}, titles(e.list(t)))
	assert.Equal(t, []string{"Write report", "Call plumber", "Buy milk"}, titles(e.list(t, "--desc")))
	assert.Equal(t, []string{"Buy milk", "Call plumber"}, titles(e.list(t, "--type", "HOME")))
	assert.Equal(t, []string{"Write report"}, titles(e.list(t, "--search", "REP")))
	// Priorities compare as plain strings: high < low < medium.
	assert.Equal(t, []string{"Write report", "Buy milk", "Call plumber"}, titles(e.list(t, "--sort", "priority")))

	_, _, err := e.run(t, "", "list", "--sort", "color")
	assert.ErrorIs(t, err, types.ErrInvalidSortKey)

	table := e.mustRun(t, "list")
	assert.Contains(t, table, "TITLE")
	assert.Contains(t, table, "Call plumber")

	assert.Contains(t, e.mustRun(t, "list", "--format", "yaml"), "title: Buy milk")
	toml := e.mustRun(t, "list", "--format", "toml")
	assert.Contains(t, toml, "[[todos]]")
	assert.Contains(t, toml, `title = "Write report"`)

	assert.Equal(t, "home\nwork\n", e.mustRun(t, "types"))
}

func TestSet(t *testing.T) {
	e := newEnv(t)
	id := e.add(t, "--title", "Draft")

	out := e.mustRun(t, "set", id, "title", "Final")
	assert.Contains(t, out, "Final")
	assert.Equal(t, "Final", e.get(t, id).Title)

	out = e.mustRun(t, "set", id, "title", "Final")
	assert.Contains(t, out, "No change.")

	tests := []struct {
		name  string
		field string
		value string
		want  error
	}{
		{"status goes through advance", "status", "complete", types.ErrReadOnlyField},
		{"read-only field", "created", "2020-01-01", types.ErrReadOnlyField},
		{"unknown field", "color", "red", types.ErrUnknownField},
		{"bad date", "proposedStartDate", "someday", types.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.run(t, "", "set", id, tt.field, tt.value)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStatusCommands(t *testing.T) {
	e := newEnv(t)
	id := e.add(t, "--title", "Task")

	_, _, err := e.run(t, "", "finish", id)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)

	e.mustRun(t, "start", id)
	td := e.get(t, id)
	assert.Equal(t, types.StatusInProgress, td.Status)
	assert.NotEmpty(t, td.ActualStartDate)

	e.mustRun(t, "advance", id)
	td = e.get(t, id)
	assert.Equal(t, types.StatusComplete, td.Status)
	assert.NotEmpty(t, td.ActualEndDate)

	e.mustRun(t, "restart", id)
	td = e.get(t, id)
	assert.Equal(t, types.StatusIncomplete, td.Status)
	assert.Empty(t, td.ActualStartDate)
	assert.Empty(t, td.ActualEndDate)
}

func TestSubtasksAndCascadeDelete(t *testing.T) {
	e := newEnv(t)
	root := e.add(t, "--title", "Move house")
	child := e.add(t, "--title", "Pack books", "--parent", root)
	grandchild := e.add(t, "--title", "Buy boxes", "--parent", child)
	e.mustRun(t, "subtask", "add", root, "Hire", "van")

	td := e.get(t, root)
	require.Len(t, td.SubTasks, 2)
	assert.Equal(t, types.LinkRef(child), td.SubTasks[0])
	assert.Equal(t, types.LabelRef("Hire van"), td.SubTasks[1])
	assert.Equal(t, child, e.get(t, grandchild).ParentTask)

	out := e.mustRun(t, "show", root)
	assert.Contains(t, out, "0. Pack books")
	assert.Contains(t, out, "1. Hire van")

	// Delete the middle record: the root keeps a label, the grandchild goes.
	_, _, err := e.run(t, "", "delete", child)
	assert.ErrorIs(t, err, errNotInteractive)

	out = e.mustRun(t, "--json", "delete", "--yes", child)
	var report deleteOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.ElementsMatch(t, []string{child, grandchild}, report.Deleted)
	assert.Equal(t, []string{root}, report.Unlinked)

	td = e.get(t, root)
	assert.Equal(t, []types.SubTaskRef{types.LabelRef("Pack books"), types.LabelRef("Hire van")}, td.SubTasks)
	assert.Equal(t, []string{"Move house"}, titles(e.list(t)))
}

func TestDeleteConfirmation(t *testing.T) {
	e := newEnv(t)
	prev := stdinIsTerminal
	stdinIsTerminal = func(io.Reader) bool { return true }
	t.Cleanup(func() { stdinIsTerminal = prev })

	id := e.add(t, "--title", "Old plan")

	out, errOut, err := e.run(t, "n\n", "delete", id)
	require.NoError(t, err, "declining is not a failure")
	assert.Empty(t, out)
	assert.Contains(t, errOut, `permanently delete "Old plan"`)
	assert.Contains(t, errOut, "Delete cancelled.")
	assert.Equal(t, "Old plan", e.get(t, id).Title)

	out, _, err = e.run(t, "yes\n", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+id)
	assert.Empty(t, e.list(t))
}

func TestSubtaskUnlink(t *testing.T) {
	e := newEnv(t)
	parent := e.add(t, "--title", "Parent")
	kept := e.add(t, "--title", "Kept", "--parent", parent)
	gone := e.add(t, "--title", "Gone", "--parent", parent)

	e.mustRun(t, "subtask", "unlink", "--keep", parent, "0")
	assert.Empty(t, e.get(t, kept).ParentTask)

	e.mustRun(t, "subtask", "unlink", parent, "1")
	_, _, err := e.run(t, "", "show", gone)
	assert.ErrorIs(t, err, types.ErrNotFound)

	td := e.get(t, parent)
	assert.Equal(t, []types.SubTaskRef{types.LabelRef("Kept"), types.LabelRef("Gone")}, td.SubTasks)

	_, _, err = e.run(t, "", "subtask", "unlink", parent, "0")
	assert.ErrorIs(t, err, types.ErrNotLinked)

	// Relinking the kept record works since it has no parent now.
	e.mustRun(t, "subtask", "link", parent, kept)
	assert.Equal(t, parent, e.get(t, kept).ParentTask)

	_, _, err = e.run(t, "", "subtask", "link", kept, parent)
	assert.ErrorIs(t, err, types.ErrLinkCycle)
}

func TestConfigPriorities(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"),
		[]byte("backend: sqlite\npriorities: [p1, p2]\ndefault_sort: [priority]\n"), 0o644))

	id := e.add(t, "--title", "A")
	assert.Equal(t, "p1", e.get(t, id).Priority)

	_, _, err := e.run(t, "", "add", "--title", "B", "--priority", "high")
	assert.ErrorIs(t, err, types.ErrInvalidPriority)

	t.Setenv("TODOS_PRIORITIES", "high")
	e.add(t, "--title", "C", "--priority", "high")
}

func TestUnknownID(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "", "show", "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(err))
}

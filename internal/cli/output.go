package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// Output formats accepted by list --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTOML  = "toml"
)

var outputFormats = []string{formatTable, formatJSON, formatYAML, formatTOML}

// displayLayout renders timestamps for people, in local time.
const displayLayout = "1/2/2006, 3:04 PM"

// displayDate formats a stored timestamp for display. Values that do not
// parse are shown as stored; empty values as "-".
func displayDate(v string) string {
	if v == "" {
		return "-"
	}
	ts, ok := types.ParseTimestamp(v)
	if !ok {
		return v
	}
	return ts.In(time.Local).Format(displayLayout)
}

// startCell shows the actual start when known, otherwise the plan.
func startCell(td types.Todo) string {
	if td.ActualStartDate != "" {
		return displayDate(td.ActualStartDate)
	}
	if td.ProposedStartDate == "" {
		return "-"
	}
	return "planned " + displayDate(td.ProposedStartDate)
}

// completionCell shows the actual end when known, otherwise the plan.
func completionCell(td types.Todo) string {
	if td.ActualEndDate != "" {
		return displayDate(td.ActualEndDate)
	}
	if td.ProposedEndDate == "" {
		return "-"
	}
	return "planned " + displayDate(td.ProposedEndDate)
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	return enc.Close()
}

// tomlDocument wraps a record list, since a TOML document must be a table.
type tomlDocument struct {
	Todos []types.Todo `toml:"todos"`
}

func writeTOML(w io.Writer, todos []types.Todo) error {
	if err := toml.NewEncoder(w).Encode(tomlDocument{Todos: todos}); err != nil {
		return fmt.Errorf("marshal TOML: %w", err)
	}
	return nil
}

// writeTodos renders records in the given format.
func writeTodos(w io.Writer, format string, todos []types.Todo, now time.Time) error {
	switch format {
	case formatJSON:
		return writeJSON(w, todos)
	case formatYAML:
		return writeYAML(w, todos)
	case formatTOML:
		return writeTOML(w, todos)
	case formatTable, "":
		return writeTable(w, todos, now)
	default:
		return fmt.Errorf("unknown format %q (valid: %v)", format, outputFormats)
	}
}

// writeTable prints records as a bordered table. Rows that are behind
// schedule are drawn in red.
func writeTable(w io.Writer, todos []types.Todo, now time.Time) error {
	if len(todos) == 0 {
		_, err := fmt.Fprintln(w, "No todos.")
		return err
	}

	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	behind := cell.Foreground(lipgloss.Color("196"))

	late := make([]bool, len(todos))
	rows := make([][]string, 0, len(todos))
	for i, td := range todos {
		late[i] = td.IsBehindSchedule(now)
		rows = append(rows, []string{
			shortID(td.ID),
			td.Title,
			td.Type,
			td.Priority,
			string(td.Status),
			startCell(td),
			completionCell(td),
			fmt.Sprint(len(td.SubTasks)),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "TYPE", "PRIORITY", "STATUS", "START", "COMPLETION", "SUBTASKS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && row < len(late) && late[row]:
				return behind
			default:
				return cell
			}
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// showOutput is the JSON shape of show.
type showOutput struct {
	types.Todo
	BehindSchedule bool     `json:"behindSchedule"`
	LinkedFrom     []string `json:"linkedFrom"`
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a todo with its sub-tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				td, err := s.todo(ctx, args[0])
				if err != nil {
					return err
				}
				linkedFrom, err := s.backend.LinkedFrom(ctx, td.ID)
				if err != nil {
					return sysError("query links: %w", err)
				}
				if linkedFrom == nil {
					linkedFrom = []string{}
				}
				now := time.Now()
				if flags.jsonMode {
					return writeJSON(s.out, showOutput{Todo: td, BehindSchedule: td.IsBehindSchedule(now), LinkedFrom: linkedFrom})
				}
				printTodo(s.out, td, s.backend.Lookup, linkedFrom, now)
				return nil
			})
		},
	}
}

// printTodo writes the human-readable detail view.
func printTodo(w io.Writer, td types.Todo, lookup func(string) (types.Todo, bool), linkedFrom []string, now time.Time) {
	fmt.Fprintf(w, "ID:          %s\n", td.ID)
	fmt.Fprintf(w, "Title:       %s\n", td.Title)
	fmt.Fprintf(w, "Type:        %s\n", td.Type)
	fmt.Fprintf(w, "Priority:    %s\n", td.Priority)
	fmt.Fprintf(w, "Status:      %s (next: %s)\n", td.Status, td.Status.ActionLabel())
	if td.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", td.Description)
	}
	fmt.Fprintf(w, "Created:     %s\n", displayDate(td.Created))
	fmt.Fprintf(w, "Updated:     %s\n", displayDate(td.LastUpdated))
	if td.ActualStartDate != "" {
		fmt.Fprintf(w, "Start date:  %s\n", displayDate(td.ActualStartDate))
	} else {
		fmt.Fprintf(w, "Planned start: %s\n", displayDate(td.ProposedStartDate))
	}
	end := td.ActualEndDate
	if end == "" {
		end = td.ProposedEndDate
	}
	fmt.Fprintf(w, "Completion date: %s\n", displayDate(end))
	if td.IsBehindSchedule(now) {
		fmt.Fprintln(w, "Behind schedule")
	}
	if td.ParentTask != "" {
		label := td.ParentTask
		if parent, ok := lookup(td.ParentTask); ok {
			label = fmt.Sprintf("%s (%s)", parent.Title, parent.ID)
		}
		fmt.Fprintf(w, "Parent:      %s\n", label)
	}

	if len(td.SubTasks) > 0 {
		fmt.Fprintln(w, "\nSub-tasks:")
		for i, st := range td.SubTasks {
			fmt.Fprintf(w, "  %d. %s\n", i, subTaskLine(st, lookup))
		}
	}
	if len(linkedFrom) > 0 {
		fmt.Fprintln(w, "\nLinked from:")
		for _, id := range linkedFrom {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
}

func subTaskLine(st types.SubTaskRef, lookup func(string) (types.Todo, bool)) string {
	if !st.Link {
		return st.Name
	}
	child, ok := lookup(st.ID)
	if !ok {
		return fmt.Sprintf("%s [missing %s]", st.Label(lookup), st.ID)
	}
	return fmt.Sprintf("%s [%s, %s]", child.Title, child.Status, child.ID)
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/engine"
	"github.com/mesh-intelligence/todos/pkg/types"
)

func newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo and all linked sub-tasks",
		Long: "Delete a todo together with every linked sub-task, transitively. If the\n" +
			"todo is itself a sub-task, its parent keeps a plain label with its title.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				td, err := s.todo(ctx, args[0])
				if err != nil {
					return err
				}

				var report *engine.DeleteReport
				if yes {
					report, err = s.engine.Delete(ctx, td)
				} else {
					confirm := newStdioConfirmer(cmd.InOrStdin(), s.errOut)
					report, err = s.engine.ConfirmDelete(ctx, td, confirm)
				}
				if errors.Is(err, types.ErrDeclined) {
					fmt.Fprintln(s.errOut, "Delete cancelled.")
					return nil
				}
				if err != nil {
					if report != nil && len(report.Deleted) > 0 {
						s.logger.Error("partial delete", "deleted", report.Deleted)
					}
					return err
				}
				return writeDeleteReport(s, report)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// deleteOutput is the JSON shape of a cascade report.
type deleteOutput struct {
	Deleted  []string `json:"deleted"`
	Unlinked []string `json:"unlinked"`
	Dangling []string `json:"dangling"`
}

func writeDeleteReport(s *session, r *engine.DeleteReport) error {
	if flags.jsonMode {
		return writeJSON(s.out, deleteOutput{
			Deleted:  nonNil(r.Deleted),
			Unlinked: nonNil(r.Unlinked),
			Dangling: nonNil(r.Dangling),
		})
	}
	for _, id := range r.Deleted {
		fmt.Fprintf(s.out, "deleted %s\n", id)
	}
	for _, id := range r.Unlinked {
		fmt.Fprintf(s.out, "unlinked from %s\n", id)
	}
	for _, id := range r.Dangling {
		fmt.Fprintf(s.out, "skipped missing %s\n", id)
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

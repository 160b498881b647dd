package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/engine"
	"github.com/mesh-intelligence/todos/pkg/types"
)

func newSetCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Change one field of a todo",
		Long: "Change one field of a todo. Editable fields: title, description, type,\n" +
			"priority, proposedStartDate, proposedEndDate. Use advance to change status.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, value := args[1], args[2]
			if field == types.FieldStatus {
				return fmt.Errorf("%w: use \"todos advance\" to change status", types.ErrReadOnlyField)
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				td, err := s.todo(ctx, args[0])
				if err != nil {
					return err
				}
				out, err := s.engine.ApplyFieldChange(ctx, &td, field, value, engine.ChangeOptions{ForceUpdate: force})
				if err != nil {
					return err
				}
				return reportChange(s, td, out)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "write even if the value is unchanged")
	return cmd
}

// reportChange prints the record after a mutation, or a no-op note.
func reportChange(s *session, td types.Todo, out engine.Outcome) error {
	if flags.jsonMode {
		return writeJSON(s.out, td)
	}
	if !out.Changed {
		fmt.Fprintln(s.out, "No change.")
		return nil
	}
	fmt.Fprintf(s.out, "%s %s: %s\n", shortID(td.ID), td.Title, td.Status)
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/pkg/types"
)

type addFlags struct {
	title       string
	todoType    string
	priority    string
	start       string
	end         string
	description string
	parent      string
}

func newAddCmd() *cobra.Command {
	var f addFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a todo",
		Long: "Create a todo. Priority defaults to the first configured value.\n" +
			"With --parent the new todo is linked as a sub-task of that todo.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				return runAdd(ctx, s, f)
			})
		},
	}
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "title (required)")
	cmd.Flags().StringVar(&f.todoType, "type", "", "free-form type, e.g. work or home")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "priority")
	cmd.Flags().StringVar(&f.start, "start", "", "planned start date")
	cmd.Flags().StringVar(&f.end, "end", "", "planned end date")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "description")
	cmd.Flags().StringVar(&f.parent, "parent", "", "id or id prefix of the parent todo")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func runAdd(ctx context.Context, s *session, f addFlags) error {
	draft := types.Todo{
		Title:             f.title,
		Type:              f.todoType,
		Priority:          f.priority,
		ProposedStartDate: f.start,
		ProposedEndDate:   f.end,
		Description:       f.description,
	}
	if f.parent != "" {
		parent, err := s.todo(ctx, f.parent)
		if err != nil {
			return err
		}
		draft.ParentTask = parent.ID
	}

	created, err := s.engine.Create(ctx, draft)
	if err != nil {
		return err
	}
	if flags.jsonMode {
		return writeJSON(s.out, created)
	}
	fmt.Fprintln(s.out, created.ID)
	return nil
}

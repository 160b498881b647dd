package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/engine"
	"github.com/mesh-intelligence/todos/pkg/types"
)

func newSubtaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage the sub-task list of a todo",
	}
	cmd.AddCommand(newSubtaskAddCmd(), newSubtaskLinkCmd(), newSubtaskUnlinkCmd())
	return cmd
}

func newSubtaskAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <name...>",
		Short: "Append a plain sub-task label",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				td, err := s.todo(ctx, args[0])
				if err != nil {
					return err
				}
				out, err := s.engine.AddSubTask(ctx, &td, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				return reportChange(s, td, out)
			})
		},
	}
}

func newSubtaskLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <parent-id> <child-id>",
		Short: "Link an existing todo as a sub-task",
		Long:  "Link an existing todo as a sub-task. A child linked elsewhere is moved.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				parent, err := s.todo(ctx, args[0])
				if err != nil {
					return err
				}
				child, err := s.todo(ctx, args[1])
				if err != nil {
					return err
				}
				out, err := s.engine.LinkSubTask(ctx, &parent, child.ID)
				if err != nil {
					return err
				}
				return reportChange(s, parent, out)
			})
		},
	}
}

func newSubtaskUnlinkCmd() *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "unlink <parent-id> <position>",
		Short: "Turn a linked sub-task back into a label",
		Long: "Turn the linked sub-task at position (as numbered by show) into a plain\n" +
			"label. The former child is deleted with its own sub-tasks unless --keep\n" +
			"is given.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: position %q is not a number", types.ErrInvalidData, args[1])
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				parent, err := s.todo(ctx, args[0])
				if err != nil {
					return err
				}
				report, err := s.engine.Unlink(ctx, &parent, index, engine.UnlinkOptions{KeepRecord: keep})
				if err != nil {
					return err
				}
				return writeDeleteReport(s, report)
			})
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep the former child as a standalone todo")
	return cmd
}

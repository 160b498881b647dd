package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/pkg/types"
)

func newAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Move a todo to its next status",
		Long:  "Move a todo along incomplete -> in-progress -> complete -> incomplete.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				td, err := s.todo(ctx, args[0])
				if err != nil {
					return err
				}
				out, err := s.engine.Advance(ctx, &td)
				if err != nil {
					return err
				}
				return reportChange(s, td, out)
			})
		},
	}
}

// newTransitionCmd builds a command that moves a todo to target and fails
// unless target is the todo's next status.
func newTransitionCmd(use, short string, target types.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				td, err := s.todo(ctx, args[0])
				if err != nil {
					return err
				}
				out, err := s.engine.Transition(ctx, &td, target)
				if err != nil {
					return err
				}
				return reportChange(s, td, out)
			})
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the todos release version.
const Version = "0.3.0"

const modulePath = "github.com/mesh-intelligence/todos"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the todos version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "todos v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}

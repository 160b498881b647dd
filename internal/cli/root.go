// Package cli implements the todos command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "todos" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todos",
		Short: "A local task tracker with sub-tasks and schedules",
		Long: "Todos keeps task records with priorities, planned and actual dates,\n" +
			"a three-state status cycle, and linked sub-tasks that are deleted\n" +
			"together with their parent.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.todos-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newTypesCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newAdvanceCmd())
	root.AddCommand(newTransitionCmd("start", "Move an incomplete todo to in-progress", types.StatusInProgress))
	root.AddCommand(newTransitionCmd("finish", "Complete an in-progress todo", types.StatusComplete))
	root.AddCommand(newTransitionCmd("restart", "Reopen a completed todo", types.StatusIncomplete))
	root.AddCommand(newSubtaskCmd())
	root.AddCommand(newDeleteCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "todos:", err)
		os.Exit(exitCode(err))
	}
}

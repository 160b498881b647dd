package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todos/internal/engine"
)

type listFlags struct {
	search     string
	types      []string
	sort       []string
	descending bool
	format     string
}

func newListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos, filtered and sorted",
		Long: "List todos whose title contains --search (case-insensitive) and whose\n" +
			"type is one of --type. Records are sorted by the --sort keys in order;\n" +
			"--desc reverses the whole result.\n\nSort keys:\n" + sortKeyHelp(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				return runList(ctx, s, f)
			})
		},
	}
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "title substring to match")
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "type to include (repeatable)")
	cmd.Flags().StringSliceVar(&f.sort, "sort", nil, "sort key (repeatable; default from config)")
	cmd.Flags().BoolVar(&f.descending, "desc", false, "reverse the sorted result")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "output format: "+strings.Join(outputFormats, ", "))
	return cmd
}

func sortKeyHelp() string {
	var b strings.Builder
	for _, f := range engine.SortFields {
		fmt.Fprintf(&b, "  %-18s %s\n", f.Key, f.Label)
	}
	return b.String()
}

func runList(ctx context.Context, s *session, f listFlags) error {
	all, err := s.backend.FetchAll(ctx)
	if err != nil {
		return sysError("fetch todos: %w", err)
	}

	keys := f.sort
	if len(keys) == 0 {
		keys = s.settings.DefaultSort
	}
	view, err := engine.ComputeView(all, f.search, f.types, keys, f.descending)
	if err != nil {
		return err
	}
	s.logger.Debug("computed view", "total", len(all), "shown", len(view), "sort", keys)

	format := f.format
	if flags.jsonMode {
		format = formatJSON
	}
	return writeTodos(s.out, format, view, time.Now())
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the distinct todo types in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				all, err := s.backend.FetchAll(ctx)
				if err != nil {
					return sysError("fetch todos: %w", err)
				}
				opts := engine.TypeOptions(all)
				if flags.jsonMode {
					return writeJSON(s.out, opts)
				}
				for _, t := range opts {
					fmt.Fprintln(s.out, t)
				}
				return nil
			})
		},
	}
}

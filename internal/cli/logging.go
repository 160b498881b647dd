package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger returns the diagnostic logger for a command. --verbose forces
// debug level; otherwise level comes from config, falling back to warn.
func newLogger(w io.Writer, level string, verbose bool) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "todos",
		ReportTimestamp: verbose,
	})
}

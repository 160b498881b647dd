package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// noticePrinter writes engine notices as styled one-line messages.
type noticePrinter struct {
	w       io.Writer
	success lipgloss.Style
	failure lipgloss.Style
}

var _ types.Notifier = (*noticePrinter)(nil)

func newNoticePrinter(w io.Writer) *noticePrinter {
	r := lipgloss.NewRenderer(w)
	return &noticePrinter{
		w:       w,
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

func (p *noticePrinter) Notify(n types.Notice) {
	if n.Kind == types.NoticeError {
		fmt.Fprintln(p.w, p.failure.Render("✗ "+n.Message))
		return
	}
	fmt.Fprintln(p.w, p.success.Render("✓ "+n.Message))
}

var errNotInteractive = errors.New("stdin is not a terminal; pass --yes to confirm")

// stdioConfirmer asks a yes/no question on the terminal.
type stdioConfirmer struct {
	in          io.Reader
	out         io.Writer
	interactive func() bool
}

var _ types.Confirmer = (*stdioConfirmer)(nil)

// stdinIsTerminal reports whether in is an interactive terminal.
var stdinIsTerminal = func(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newStdioConfirmer(in io.Reader, out io.Writer) *stdioConfirmer {
	return &stdioConfirmer{
		in:          in,
		out:         out,
		interactive: func() bool { return stdinIsTerminal(in) },
	}
}

// Confirm prints message and reads one line. Only y or yes (any case)
// counts as consent; an empty line or end of input declines. It refuses to
// block on a non-terminal stdin.
func (c *stdioConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !c.interactive() {
		return false, errNotInteractive
	}
	fmt.Fprintf(c.out, "%s [y/n]: ", message)
	response, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

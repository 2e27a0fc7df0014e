package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles renders single-line labels. The renderer is bound to the session
// output so colour is dropped when that output is not a terminal.
type styles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	info  lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		ok:    r.NewStyle().Foreground(lipgloss.Color("42")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("196")),
		info:  r.NewStyle().Foreground(lipgloss.Color("214")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

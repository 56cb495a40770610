// Package ui formats the user-facing output of the retrograde CLI:
// confirmation lines for generated files, lookup results and status lines.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes results to Out and status messages to Err. Styling is
// applied only when the destination is a color-capable terminal.
type Printer struct {
	Out io.Writer
	Err io.Writer

	success lipgloss.Style
	failure lipgloss.Style
	accent  lipgloss.Style
	muted   lipgloss.Style
}

// New returns a Printer writing to out and errOut.
func New(out, errOut io.Writer) *Printer {
	r := lipgloss.NewRenderer(errOut)
	return &Printer{
		Out:     out,
		Err:     errOut,
		success: r.NewStyle().Foreground(lipgloss.Color("#00E676")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FF5252")).Bold(true),
		accent:  r.NewStyle().Foreground(lipgloss.Color("#00BFFF")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	}
}

// Stdio returns a Printer bound to os.Stdout and os.Stderr.
func Stdio() *Printer {
	return New(os.Stdout, os.Stderr)
}

// Generated prints the confirmation line for one written file.
func (p *Printer) Generated(path string) {
	fmt.Fprintf(p.Out, "Generated %s.\n", path)
}

// Retrograde prints the state found for ts: the timestamp, then one
// tab-indented line per body in retrograde.
func (p *Printer) Retrograde(ts int64, bodies []string) {
	fmt.Fprintf(p.Out, "ts: %d\n", ts)
	for _, name := range bodies {
		fmt.Fprintf(p.Out, "\t%s\n", name)
	}
}

// Loaded reports rows written to a database file.
func (p *Printer) Loaded(dbPath string, rows int) {
	fmt.Fprintf(p.Err, "%s %s %s\n",
		p.success.Render("✓ loaded"), p.accent.Render(dbPath), p.muted.Render(fmt.Sprintf("(%d rows)", rows)))
}

// Watching reports that path is being watched.
func (p *Printer) Watching(path string) {
	fmt.Fprintf(p.Err, "%s %s %s\n",
		p.accent.Render("◎ watching"), path, p.muted.Render("(ctrl-c to stop)"))
}

// Error prints a failure message.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.Err, "%s %s\n", p.failure.Render("✗ error:"), msg)
}

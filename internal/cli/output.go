package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/journal"
)

const (
	colorError   = lipgloss.Color("196") // red
	colorInfo    = lipgloss.Color("40")  // green
	colorModal   = lipgloss.Color("39")  // blue
	colorDim     = lipgloss.Color("244") // gray
	colorWarning = lipgloss.Color("214") // orange
)

// printer writes styled output; styles degrade to plain text when out is
// not a terminal.
type printer struct {
	out io.Writer
	err io.Writer

	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
	modalStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	warningStyle lipgloss.Style
	headerStyle  lipgloss.Style
	insertStyle  lipgloss.Style
	deleteStyle  lipgloss.Style
}

func newPrinter(out, errOut io.Writer) *printer {
	r := lipgloss.NewRenderer(out)

	return &printer{
		out: out,
		err: errOut,

		errorStyle:   r.NewStyle().Foreground(colorError).Bold(true),
		infoStyle:    r.NewStyle().Foreground(colorInfo),
		modalStyle:   r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorModal).Padding(0, 1),
		dimStyle:     r.NewStyle().Foreground(colorDim),
		warningStyle: r.NewStyle().Foreground(colorWarning),
		headerStyle:  r.NewStyle().Bold(true),
		insertStyle:  r.NewStyle().Foreground(colorInfo),
		deleteStyle:  r.NewStyle().Foreground(colorError),
	}
}

func (p *printer) message(m journal.Message) {
	switch m.Level {
	case journal.LevelError:
		fmt.Fprintln(p.err, p.errorStyle.Render(m.Text))
	case journal.LevelModal:
		fmt.Fprintln(p.out, p.modalStyle.Render(m.Text))
	case journal.LevelInfo:
		fmt.Fprintln(p.out, p.infoStyle.Render(m.Text))
	}
}

func (p *printer) log(lines []string) {
	for _, line := range lines {
		fmt.Fprintln(p.err, p.dimStyle.Render(strings.TrimRight(line, "\n")))
	}
}

func (p *printer) progress(text string) {
	fmt.Fprintln(p.err, p.dimStyle.Render(text))
}

// diff colors the output of a compare run line by line.
func (p *printer) diff(text string) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			fmt.Fprintln(p.out, p.headerStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(p.out, p.insertStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(p.out, p.deleteStyle.Render(line))
		default:
			fmt.Fprintln(p.out, line)
		}
	}
}

// record prints what a finished run reported. The client output is only
// shown when verbose or when the run did not succeed.
func (p *printer) record(rec *journal.Record, verbose bool) {
	for _, m := range rec.Messages {
		p.message(m)
	}
	if rec.Diff != "" {
		p.diff(rec.Diff)
	}
	if verbose || rec.State != cvs.StateSucceeded {
		p.log(rec.Log)
	}
	if rec.State == cvs.StateCancelled {
		fmt.Fprintln(p.err, p.warningStyle.Render("Operation cancelled"))
	}
}

func (p *printer) state(state cvs.State) string {
	switch state {
	case cvs.StateSucceeded:
		return p.infoStyle.Render(string(state))
	case cvs.StateFailed:
		return p.errorStyle.Render(string(state))
	case cvs.StateCancelled:
		return p.warningStyle.Render(string(state))
	case cvs.StateIdle, cvs.StateStarting, cvs.StateRunning:
	}
	return p.dimStyle.Render(string(state))
}

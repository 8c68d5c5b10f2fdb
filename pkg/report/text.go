package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// TextOptions controls the text writer.
type TextOptions struct {
	// Color renders severity labels with terminal colors.
	Color bool
}

var severityStyles = map[Severity]lipgloss.Style{
	Fatal:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87")),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")),
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")),
}

var (
	filenameStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// WriteText writes human-readable check output to w.
func (r *Report) WriteText(w io.Writer, opts TextOptions) {
	render := func(style lipgloss.Style, s string) string {
		if !opts.Color {
			return s
		}
		return style.Render(s)
	}

	if r.Filename != "" {
		fmt.Fprintln(w, render(filenameStyle, r.Filename))
	}

	for _, m := range r.Messages {
		label := render(severityStyles[m.Severity], string(m.Severity))
		location := ""
		if m.Line > 0 {
			location = " " + render(mutedStyle, fmt.Sprintf("[line %d]", m.Line))
		}
		fmt.Fprintf(w, "  %s(%s): %s%s\n", label, m.CheckID, m.Message, location)
	}

	if len(r.Messages) == 0 {
		fmt.Fprintln(w, "  No errors or warnings detected.")
		return
	}
	fmt.Fprintf(w, "  Check finished. Errors: %d, Warnings: %d, Fatal: %d, Info: %d\n",
		r.ErrorCount(), r.WarningCount(), r.FatalCount(), r.InfoCount())
}

package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Status symbols for command output.
const (
	symbolSuccess = "✓"
	symbolFail    = "✗"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// colorEnabled reports whether stdout supports colored output.
func colorEnabled() bool {
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}

// okMark returns a colored success symbol when the terminal supports it.
func okMark() string {
	if colorEnabled() {
		return successStyle.Render(symbolSuccess)
	}
	return symbolSuccess
}

// failMark returns a colored failure symbol when the terminal supports it.
func failMark() string {
	if colorEnabled() {
		return failStyle.Render(symbolFail)
	}
	return symbolFail
}

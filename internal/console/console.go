package console

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/fleetstat/fleetstat/internal/errors"
	"github.com/fleetstat/fleetstat/internal/status"
)

// IsInteractive reports whether stdout is a terminal capable of hosting
// the console view.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run displays the console view until the user quits or ctx is cancelled.
// Quitting invokes cancel so the poll engine shuts down with the view.
func Run(ctx context.Context, table *status.Table, cancel context.CancelFunc) error {
	model := NewModel(table, cancel)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "console view failed",
			"Run without --console to use the HTML output instead")
	}
	return nil
}

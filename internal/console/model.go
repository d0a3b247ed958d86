// Package console provides an interactive Bubble Tea view of the live
// status table, as an alternative to the HTML page when running attended
// in a terminal.
package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fleetstat/fleetstat/internal/poller"
	"github.com/fleetstat/fleetstat/internal/status"
)

// Refresh cadence for re-reading the status table. Polls land on their own
// schedule; the view just resamples.
const refreshInterval = 500 * time.Millisecond

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the Bubble Tea model for the console view. It is a pure reader
// of the shared status table.
type Model struct {
	table    *status.Table
	snapshot []status.Entry
	sp       spinner.Model
	cancel   context.CancelFunc
	width    int
	height   int
	started  time.Time
	quitting bool
}

// NewModel creates a console model over the given table. cancel stops the
// poll engine when the user quits.
func NewModel(table *status.Table, cancel context.CancelFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = loadingStyle

	return Model{
		table:   table,
		sp:      sp,
		cancel:  cancel,
		started: time.Now(),
	}
}

// Init starts the resample tick and the spinner animation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.sp.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.snapshot = m.table.Snapshot()
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the status table with a header and footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.snapshot
	if snap == nil {
		snap = m.table.Snapshot()
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader(snap))
	sb.WriteString("\n\n")

	for _, e := range snap {
		text := strings.TrimRight(e.Text, "\n")
		if poller.IsPlaceholder(e.Text) {
			sb.WriteString(m.sp.View())
			sb.WriteString(" ")
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(footerStyle.Render("q: quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderHeader(snap []status.Entry) string {
	loading := 0
	for _, e := range snap {
		if poller.IsPlaceholder(e.Text) {
			loading++
		}
	}

	title := fmt.Sprintf("fleetstat · %d hosts", len(snap))
	if loading > 0 {
		title += loadingStyle.Render(fmt.Sprintf("  (%d loading)", loading))
	}
	title += footerStyle.Render(fmt.Sprintf("  up %s", time.Since(m.started).Round(time.Second)))
	return headerStyle.Render(title)
}

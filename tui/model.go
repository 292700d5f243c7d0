// Package tui provides the Bubble Tea terminal UI for pasteprobe,
// displaying live exploration progress and a styled summary of the session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/pasteprobe/explore"
	"github.com/lukemcguire/pasteprobe/result"
)

// recentLines is how many attempt lines stay visible under the spinner.
const recentLines = 5

// Model is the Bubble Tea model for the exploration TUI.
type Model struct {
	cancel     context.CancelFunc
	spinner    spinner.Model
	progressCh <-chan explore.Event
	target     result.Limit

	attempts  int
	available int
	taken     int
	skipped   int
	recent    []string
	quitting  bool
	done      bool
	session   *result.Session
	err       error
	width     int
}

// NewModel creates a TUI model listening on progressCh. cancel stops the
// exploration when the user quits.
func NewModel(cancel context.CancelFunc, target result.Limit, progressCh <-chan explore.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		cancel:     cancel,
		spinner:    spin,
		progressCh: progressCh,
		target:     target,
	}
}

// Init starts the spinner and progress listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForProgress(m.progressCh))
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ProgressMsg:
		m.available = msg.Available
		m.taken = msg.Taken
		if msg.Skipped {
			m.skipped++
		} else {
			m.attempts = msg.Attempt
		}
		m.recent = append(m.recent, progressLine(explore.Event(msg)))
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}
		return m, waitForProgress(m.progressCh)

	case progressClosedMsg:
		return m, nil

	case DoneMsg:
		m.done = true
		m.session = msg.Session
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.session != nil {
		out := RenderSummary(m.session)
		if m.err != nil {
			out += errorStyle.Render("Error: "+m.err.Error()) + "\n"
		}
		return out
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.quitting {
		return dimStyle.Render("Stopping...") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Exploring... %d/%s found, %d taken, %d attempts",
		m.spinner.View(), m.available, m.target, m.taken, m.attempts)
	if m.skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", m.skipped)
	}
	b.WriteString("\n")
	for _, line := range m.recent {
		b.WriteString(dimStyle.Render("  "+line) + "\n")
	}
	b.WriteString(dimStyle.Render("  press q to stop") + "\n")
	return b.String()
}

// Done reports whether the summary has been rendered by the program.
func (m Model) Done() bool {
	return m.done
}

func progressLine(evt explore.Event) string {
	r := evt.Result
	switch {
	case evt.Skipped:
		return fmt.Sprintf("%s skipped (robots.txt)", r.URL)
	case r.Available():
		return availableStyle.Render(fmt.Sprintf("%s available", r.URL))
	case r.Status == result.StatusRequestError:
		return fmt.Sprintf("%s request failed: %s", r.URL, result.FormatCategory(r.ErrorCategory))
	case evt.Opened:
		return fmt.Sprintf("%s taken (%d), opened", r.URL, r.StatusCode)
	default:
		return fmt.Sprintf("%s taken (%d)", r.URL, r.StatusCode)
	}
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/pasteprobe/explore"
	"github.com/lukemcguire/pasteprobe/result"
)

// ProgressMsg reports one explored candidate.
type ProgressMsg explore.Event

// DoneMsg signals the exploration has finished.
type DoneMsg struct {
	Session *result.Session
	Err     error
}

// progressClosedMsg is sent once the explorer closes its event channel. The
// session itself arrives separately in a DoneMsg.
type progressClosedMsg struct{}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel.
func waitForProgress(ch <-chan explore.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return progressClosedMsg{}
		}
		return ProgressMsg(evt)
	}
}

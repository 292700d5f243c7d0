package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/pasteprobe/explore"
	"github.com/lukemcguire/pasteprobe/result"
)

// Runner is the exploration driven by the TUI.
type Runner interface {
	Run(ctx context.Context) (*result.Session, error)
}

// Run drives runner under a Bubble Tea program. progressCh must be the
// channel runner reports to. When the user quits or ctx is cancelled the exploration is
// cancelled and its partial summary is written to out after the program
// exits. The exploration error, if any, is returned alongside the session. A
// panicking runner stops the program and is reported as an error.
func Run(ctx context.Context, runner Runner, target result.Limit, progressCh <-chan explore.Event, out io.Writer, opts ...tea.ProgramOption) (*result.Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(NewModel(cancel, target, progressCh), opts...)

	var (
		session *result.Session
		runErr  error
		final   tea.Model
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				cancel()
				err = fmt.Errorf("exploration panicked: %v", r)
			}
		}()
		session, runErr = runner.Run(groupCtx)
		program.Send(DoneMsg{Session: session, Err: runErr})
		return nil
	})
	group.Go(func() error {
		var err error
		final, err = program.Run()
		cancel()
		if errors.Is(err, tea.ErrProgramKilled) {
			// Interrupted from outside; the exploration stops with ctx.
			return nil
		}
		if err != nil {
			return fmt.Errorf("run terminal UI: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return session, err
	}

	if m, ok := final.(Model); !ok || !m.Done() {
		if _, err := io.WriteString(out, RenderSummary(session)); err != nil {
			return session, fmt.Errorf("write summary: %w", err)
		}
	}
	return session, runErr
}

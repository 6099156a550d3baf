package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/focus-cli/internal/domain"
)

// Run starts the interactive timer and blocks until the user quits or ctx
// is cancelled. It returns the timer so callers can inspect the final state.
func Run(ctx context.Context, opts Options) (*domain.SessionTimer, error) {
	model := NewModel(opts)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !opts.Inline {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(model, programOpts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return model.Timer(), fmt.Errorf("failed to run TUI: %w", err)
	}
	if m, ok := final.(Model); ok {
		return m.Timer(), nil
	}
	return model.Timer(), nil
}

// ShowStatus formats the state for non-interactive output.
func ShowStatus(state *domain.CurrentState) string {
	var out string
	if state.Timer != nil {
		snap := state.Timer
		out += "🍅 Timer\n"
		out += fmt.Sprintf("   %s (%s)\n", domain.GetSessionTypeLabel(snap.Type), domain.GetStatusLabel(*snap))
		out += fmt.Sprintf("   Remaining: %s\n", formatSeconds(snap.RemainingSeconds))
		out += fmt.Sprintf("   Progress: %.0f%%\n", snap.Progress*100)
		if snap.Task != nil {
			out += fmt.Sprintf("   Task: %s\n", snap.Task.Title)
		}
		out += "\n"
	}

	out += "📊 Today's Stats:\n"
	out += fmt.Sprintf("   Work Sessions: %d\n", state.TodayStats.WorkSessions)
	out += fmt.Sprintf("   Breaks Taken: %d\n", state.TodayStats.BreaksTaken)
	out += fmt.Sprintf("   Focus Time: %s\n", state.TodayStats.FocusTime)

	if len(state.UpcomingEvents) > 0 {
		out += "\n📅 Upcoming Events:\n"
		for _, e := range state.UpcomingEvents {
			out += "   " + EventLine(e) + "\n"
		}
	}
	return out
}

// EventLine renders an event as "Mon 09:00-09:30 Title @ Location".
func EventLine(e *domain.Event) string {
	start, end := e.Start.Local(), e.End.Local()
	line := fmt.Sprintf("%s-%s %s", start.Format("Mon 15:04"), end.Format("15:04"), e.Title)
	if e.Location != "" {
		line += " @ " + e.Location
	}
	if e.Attendees > 0 {
		line += fmt.Sprintf(" (%d attendees)", e.Attendees)
	}
	return line
}

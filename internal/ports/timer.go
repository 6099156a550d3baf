package ports

import (
	"context"
	"fmt"

	"github.com/xvierd/focus-cli/internal/domain"
)

// TimerCommand represents a user action on the session timer.
type TimerCommand string

const (
	// CmdStart starts or resumes the timer.
	CmdStart TimerCommand = "start"

	// CmdPause pauses the timer.
	CmdPause TimerCommand = "pause"

	// CmdReset rewinds the current session.
	CmdReset TimerCommand = "reset"

	// CmdStop ends the current run; same effect as reset.
	CmdStop TimerCommand = "stop"

	// CmdAcknowledge confirms a finished session and loads the next one.
	CmdAcknowledge TimerCommand = "acknowledge"
)

// TimerCommands lists the commands accepted by ParseTimerCommand.
var TimerCommands = []string{
	string(CmdStart),
	string(CmdPause),
	string(CmdReset),
	string(CmdStop),
	string(CmdAcknowledge),
}

// ParseTimerCommand validates a command name.
func ParseTimerCommand(s string) (TimerCommand, error) {
	for _, c := range TimerCommands {
		if s == c {
			return TimerCommand(s), nil
		}
	}
	return "", fmt.Errorf("invalid timer command %q", s)
}

// TimerControl is the driving port of a running session timer. All calls
// are serialized with the tick source by the implementation.
type TimerControl interface {
	// Apply runs a command and returns the resulting snapshot.
	Apply(ctx context.Context, cmd TimerCommand) (domain.TimerSnapshot, error)

	// SetPreset replaces the length of the current session.
	SetPreset(ctx context.Context, minutes int) (domain.TimerSnapshot, error)

	// SetActiveTask links future completions to a task. Nil clears it.
	SetActiveTask(ctx context.Context, ref *domain.ActiveTaskRef) (domain.TimerSnapshot, error)

	// Snapshot returns the current timer state.
	Snapshot(ctx context.Context) (domain.TimerSnapshot, error)
}

package domain

import (
	"fmt"
	"time"
)

// SessionType represents the kind of timed interval.
type SessionType string

const (
	SessionTypeWork       SessionType = "work"
	SessionTypeShortBreak SessionType = "short_break"
	SessionTypeLongBreak  SessionType = "long_break"
)

// IsBreak returns true for short and long breaks.
func (t SessionType) IsBreak() bool {
	return t == SessionTypeShortBreak || t == SessionTypeLongBreak
}

// ParseSessionType validates a stored session type string.
func ParseSessionType(s string) (SessionType, error) {
	switch t := SessionType(s); t {
	case SessionTypeWork, SessionTypeShortBreak, SessionTypeLongBreak:
		return t, nil
	default:
		return "", fmt.Errorf("invalid session type %q", s)
	}
}

// TimerConfig holds the durations and transition rules of the timer.
// A config is replaced wholesale; it is never patched field by field.
type TimerConfig struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	LongBreakInterval  int
	AutoStartBreaks    bool
	AutoStartWork      bool
}

// DefaultTimerConfig returns the standard pomodoro configuration.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:       25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
		LongBreakInterval:  4,
	}
}

// Validate checks that every duration is at least one second and the
// long break interval is at least one.
func (c TimerConfig) Validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"work", c.WorkDuration},
		{"short break", c.ShortBreakDuration},
		{"long break", c.LongBreakDuration},
	}
	for _, dur := range durations {
		if dur.d < time.Second {
			return fmt.Errorf("%s duration %s: %w", dur.name, dur.d, ErrInvalidDuration)
		}
	}
	if c.LongBreakInterval < 1 {
		return fmt.Errorf("long break interval %d: %w", c.LongBreakInterval, ErrInvalidInterval)
	}
	return nil
}

// DurationFor returns the configured length of a session type in whole seconds.
func (c TimerConfig) DurationFor(t SessionType) int {
	switch t {
	case SessionTypeShortBreak:
		return seconds(c.ShortBreakDuration)
	case SessionTypeLongBreak:
		return seconds(c.LongBreakDuration)
	default:
		return seconds(c.WorkDuration)
	}
}

// AutoStart reports whether entering a session of type t starts it immediately.
func (c TimerConfig) AutoStart(t SessionType) bool {
	if t.IsBreak() {
		return c.AutoStartBreaks
	}
	return c.AutoStartWork
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

// ActiveTaskRef links the running session to a task owned elsewhere.
// The timer only stores and echoes it.
type ActiveTaskRef struct {
	ID    string
	Title string
}

// SessionComplete is emitted when a running session reaches zero.
type SessionComplete struct {
	Type                  SessionType
	Task                  *ActiveTaskRef
	TotalSeconds          int
	CompletedWorkSessions int
}

// Duration returns the length of the completed session.
func (e SessionComplete) Duration() time.Duration {
	return time.Duration(e.TotalSeconds) * time.Second
}

package domain

// CurrentState is what status views show: the timer (when one is running
// in this process), today's totals and the events of the next day.
type CurrentState struct {
	Timer          *TimerSnapshot
	TodayStats     DailyStats
	UpcomingEvents []*Event
}

// IsCountingDown returns true if there is a timer and it is running.
func (cs *CurrentState) IsCountingDown() bool {
	return cs.Timer != nil && cs.Timer.Running
}

// AwaitingAcknowledgement returns true if a finished session has not been confirmed yet.
func (cs *CurrentState) AwaitingAcknowledgement() bool {
	return cs.Timer != nil && cs.Timer.Pending != nil
}

// GetSessionTypeLabel returns a human-readable label for the session type.
func GetSessionTypeLabel(t SessionType) string {
	switch t {
	case SessionTypeWork:
		return "Focus Time"
	case SessionTypeShortBreak:
		return "Short Break"
	case SessionTypeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// GetStatusLabel returns a human-readable label for the timer status.
func GetStatusLabel(s TimerSnapshot) string {
	switch {
	case s.Pending != nil:
		return "Completed"
	case s.Running:
		return "Running"
	case s.RemainingSeconds < s.TotalSeconds:
		return "Paused"
	default:
		return "Ready"
	}
}

// CompletionTitle returns the headline shown when a session of type t ends.
func CompletionTitle(t SessionType) string {
	if t == SessionTypeWork {
		return "Great Work!"
	}
	return "Break Complete!"
}

// NextActionLabel returns the label of the action that acknowledges a
// completion of type t.
func NextActionLabel(t SessionType) string {
	if t == SessionTypeWork {
		return "Start Break"
	}
	return "Start Focus"
}

package domain

import (
	"strings"
	"time"
)

// Event is a calendar entry, for example a meeting the day's sessions
// have to fit around.
type Event struct {
	ID        string
	Title     string
	Location  string
	Attendees int
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEvent creates an event covering [start, end).
func NewEvent(title string, start, end time.Time) (*Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyEventTitle
	}
	if !end.After(start) {
		return nil, ErrInvalidEventTime
	}

	now := time.Now()
	return &Event{
		ID:        generateID(),
		Title:     title,
		Start:     start,
		End:       end,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Duration returns how long the event lasts.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Overlaps reports whether the event intersects [from, to).
func (e *Event) Overlaps(from, to time.Time) bool {
	return e.Start.Before(to) && e.End.After(from)
}

// IsOngoing reports whether now falls inside the event.
func (e *Event) IsOngoing(now time.Time) bool {
	return !now.Before(e.Start) && now.Before(e.End)
}

// DayBounds returns the local midnight starting the day of t and the next one.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

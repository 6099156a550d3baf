package domain

import (
	"strings"
	"time"
)

// Goal is a countable target, for example "Read 12 books".
type Goal struct {
	ID        string
	Title     string
	Category  string
	Target    int
	Progress  int
	Deadline  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGoal creates a goal with no progress.
func NewGoal(title string, target int) (*Goal, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyGoalTitle
	}
	if target < 1 {
		return nil, ErrInvalidTarget
	}

	now := time.Now()
	return &Goal{
		ID:        generateID(),
		Title:     title,
		Target:    target,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddProgress moves progress by delta. Progress never drops below zero
// but may exceed the target.
func (g *Goal) AddProgress(delta int) {
	g.Progress += delta
	if g.Progress < 0 {
		g.Progress = 0
	}
	g.UpdatedAt = time.Now()
}

// Percent returns progress as a percentage capped at 100.
func (g *Goal) Percent() int {
	if g.Target <= 0 {
		return 0
	}
	p := g.Progress * 100 / g.Target
	if p > 100 {
		return 100
	}
	return p
}

// IsAchieved reports whether the target has been reached.
func (g *Goal) IsAchieved() bool {
	return g.Target > 0 && g.Progress >= g.Target
}

// IsOverdue reports whether the deadline has passed without reaching the target.
func (g *Goal) IsOverdue(now time.Time) bool {
	return g.Deadline != nil && !g.IsAchieved() && now.After(*g.Deadline)
}

// Package domain contains the core entities of focus: the session timer
// engine, tasks, goals and the completed session log. Nothing here depends
// on storage, terminals or any other infrastructure.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrEmptyGoalTitle   = errors.New("goal title cannot be empty")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrInvalidTarget    = errors.New("goal target must be at least 1")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrInvalidInterval  = errors.New("long break interval must be at least 1")
	ErrRecordNotFound   = errors.New("session record not found")
	ErrRunnerClosed     = errors.New("timer runner is not running")
	ErrNothingToConfirm = errors.New("no completed session to acknowledge")
	ErrInvalidPreset    = errors.New("invalid preset")
	ErrEmptyEventTitle  = errors.New("event title cannot be empty")
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidEventTime = errors.New("event must end after it starts")
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority string. Empty means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("%q: %w (want low, medium or high)", s, ErrInvalidPriority)
	}
}

// Task represents a unit of work a focus session can be spent on.
type Task struct {
	ID               string
	Title            string
	Description      string
	Status           TaskStatus
	Priority         Priority
	Category         string
	EstimatedMinutes int
	FocusSeconds     int
	Tags             []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// NewTask creates a new pending task with the given title.
func NewTask(title string) (*Task, error) {
	if err := validateTaskTitle(title); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Task{
		ID:        generateID(),
		Title:     title,
		Status:    StatusPending,
		Priority:  PriorityMedium,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// validateTaskTitle ensures the title is not blank.
func validateTaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTaskTitle
	}
	return nil
}

// Start marks the task as in progress.
func (t *Task) Start() {
	t.Status = StatusInProgress
	t.UpdatedAt = time.Now()
}

// Complete marks the task as completed.
func (t *Task) Complete() {
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Cancel marks the task as cancelled.
func (t *Task) Cancel() {
	t.Status = StatusCancelled
	t.UpdatedAt = time.Now()
}

// AddTag adds a tag to the task, ignoring duplicates.
func (t *Task) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, existing := range t.Tags {
		if existing == tag {
			return
		}
	}
	t.Tags = append(t.Tags, tag)
	t.UpdatedAt = time.Now()
}

// CreditFocus adds the length of a finished work session to the task.
func (t *Task) CreditFocus(seconds int) {
	if seconds <= 0 {
		return
	}
	t.FocusSeconds += seconds
	t.UpdatedAt = time.Now()
}

// FocusTime returns the focus time spent on the task so far.
func (t *Task) FocusTime() time.Duration {
	return time.Duration(t.FocusSeconds) * time.Second
}

// IsActive returns true if the task is currently being worked on.
func (t *Task) IsActive() bool {
	return t.Status == StatusInProgress
}

// IsDone returns true for completed and cancelled tasks.
func (t *Task) IsDone() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}

// Ref returns the reference handed to the session timer.
func (t *Task) Ref() *ActiveTaskRef {
	return &ActiveTaskRef{ID: t.ID, Title: t.Title}
}

// TaskFilter selects which tasks a listing returns.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterPending   TaskFilter = "pending"
	FilterCompleted TaskFilter = "completed"
)

// ParseTaskFilter validates a filter string. Empty means all.
func ParseTaskFilter(s string) (TaskFilter, error) {
	switch f := TaskFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter %q: must be one of all, pending, completed", s)
	}
}

// Matches reports whether the task passes the filter.
func (f TaskFilter) Matches(t *Task) bool {
	switch f {
	case FilterPending:
		return !t.IsDone()
	case FilterCompleted:
		return t.Status == StatusCompleted
	default:
		return true
	}
}

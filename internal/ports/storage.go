// Package ports defines the interfaces (driven and driving ports)
// for the focus application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// TaskQuery narrows a task listing.
type TaskQuery struct {
	Filter   domain.TaskFilter
	Category string
}

// TaskRepository defines the interface for task persistence.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// Save persists a new task.
	Save(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindAll retrieves tasks matching the query, newest first.
	FindAll(ctx context.Context, query TaskQuery) ([]*domain.Task, error)

	// FindActive returns the most recently started in-progress task, or nil.
	FindActive(ctx context.Context) (*domain.Task, error)

	// FindByTitle does a fuzzy search over task titles, best match first.
	FindByTitle(ctx context.Context, query string) ([]*domain.Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from storage.
	Delete(ctx context.Context, id string) error
}

// GoalRepository defines the interface for goal persistence.
type GoalRepository interface {
	Save(ctx context.Context, goal *domain.Goal) error
	FindByID(ctx context.Context, id string) (*domain.Goal, error)
	FindAll(ctx context.Context) ([]*domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, id string) error
}

// EventRepository defines the interface for calendar event persistence.
type EventRepository interface {
	Save(ctx context.Context, event *domain.Event) error
	FindByID(ctx context.Context, id string) (*domain.Event, error)

	// FindBetween returns events overlapping [from, to), earliest first.
	FindBetween(ctx context.Context, from, to time.Time) ([]*domain.Event, error)

	// FindAll returns every event, earliest first.
	FindAll(ctx context.Context) ([]*domain.Event, error)

	Delete(ctx context.Context, id string) error
}

// SessionRepository defines the interface for the completed session log.
// This is a driven port (implemented by adapters).
type SessionRepository interface {
	// Save appends a record to the log.
	Save(ctx context.Context, record *domain.SessionRecord) error

	// FindRecent retrieves records completed at or after since, newest first.
	FindRecent(ctx context.Context, since time.Time) ([]*domain.SessionRecord, error)

	// FindByTask retrieves all records linked to a task, newest first.
	FindByTask(ctx context.Context, taskID string) ([]*domain.SessionRecord, error)

	// FindAll retrieves the whole log, oldest first.
	FindAll(ctx context.Context) ([]*domain.SessionRecord, error)

	// GetDailyStats returns aggregated statistics for the day containing date.
	GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Tasks provides access to task operations.
	Tasks() TaskRepository

	// Goals provides access to goal operations.
	Goals() GoalRepository

	// Sessions provides access to the session log.
	Sessions() SessionRepository

	// Events provides access to calendar events.
	Events() EventRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}

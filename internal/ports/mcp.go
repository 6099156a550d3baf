package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests and blocks until ctx is done
	// or the transport closes.
	Start(ctx context.Context) error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides read access to application state for the MCP server.
// This is a driven port (implemented by the services layer).
type MCPStateProvider interface {
	// GetCurrentState returns the timer (when one runs in this process)
	// and today's totals.
	GetCurrentState(ctx context.Context) (*domain.CurrentState, error)

	// ListTasks returns tasks matching the query.
	ListTasks(ctx context.Context, query TaskQuery) ([]*domain.Task, error)

	// GetTaskHistory returns the session log of a task.
	GetTaskHistory(ctx context.Context, taskID string) ([]*domain.SessionRecord, error)

	// GetRecentSessions returns at most limit records from the last week.
	GetRecentSessions(ctx context.Context, limit int) ([]*domain.SessionRecord, error)

	// GetTask resolves a full ID or a unique ID prefix.
	GetTask(ctx context.Context, id string) (*domain.Task, error)

	// CreateTask validates and stores a new task.
	CreateTask(ctx context.Context, draft TaskDraft) (*domain.Task, error)

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, id string) (*domain.Task, error)

	// GetStats summarizes the session log for a period.
	GetStats(ctx context.Context, period domain.StatsPeriod) (*domain.StatsSummary, error)

	// ListEvents returns the calendar events of the local day containing day.
	ListEvents(ctx context.Context, day time.Time) ([]*domain.Event, error)
}

// TaskDraft carries the fields of a task created through a driving adapter.
type TaskDraft struct {
	Title       string
	Description string
	Priority    string
	Category    string
	Tags        []string
}

package services

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	storage ports.Storage
	clock   ports.Clock
	timer   ports.TimerControl
	tasks   *TaskService
	stats   *StatsService
	events  *EventService
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)

// NewStateService creates a new state service.
func NewStateService(storage ports.Storage, clock ports.Clock) *StateService {
	return &StateService{
		storage: storage,
		clock:   clock,
		tasks:   NewTaskService(storage),
		stats:   NewStatsService(storage, clock),
		events:  NewEventService(storage, clock),
	}
}

// SetTimer attaches the timer running in this process, if any.
func (s *StateService) SetTimer(timer ports.TimerControl) {
	s.timer = timer
}

// GetCurrentState implements ports.MCPStateProvider.
func (s *StateService) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	state := &domain.CurrentState{}

	if s.timer != nil {
		snap, err := s.timer.Snapshot(ctx)
		if err == nil {
			state.Timer = &snap
		}
	}

	now := s.clock.Now()
	todayStats, err := s.storage.Sessions().GetDailyStats(ctx, now)
	if err != nil {
		todayStats = &domain.DailyStats{Date: now}
	}
	state.TodayStats = *todayStats

	if upcoming, err := s.events.Upcoming(ctx); err == nil {
		state.UpcomingEvents = upcoming
	}

	return state, nil
}

// ListEvents implements ports.MCPStateProvider.
func (s *StateService) ListEvents(ctx context.Context, day time.Time) ([]*domain.Event, error) {
	return s.events.EventsOn(ctx, day)
}

// ListTasks implements ports.MCPStateProvider.
func (s *StateService) ListTasks(ctx context.Context, query ports.TaskQuery) ([]*domain.Task, error) {
	if query.Filter == "" {
		query.Filter = domain.FilterAll
	}
	return s.storage.Tasks().FindAll(ctx, query)
}

// GetTaskHistory implements ports.MCPStateProvider.
func (s *StateService) GetTaskHistory(ctx context.Context, taskID string) ([]*domain.SessionRecord, error) {
	return s.storage.Sessions().FindByTask(ctx, taskID)
}

// GetRecentSessions implements ports.MCPStateProvider.
func (s *StateService) GetRecentSessions(ctx context.Context, limit int) ([]*domain.SessionRecord, error) {
	since := s.clock.Now().AddDate(0, 0, -7)
	sessions, err := s.storage.Sessions().FindRecent(ctx, since)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(sessions) > limit {
		return sessions[:limit], nil
	}
	return sessions, nil
}

// GetTask implements ports.MCPStateProvider.
func (s *StateService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetTask(ctx, id)
}

// CreateTask implements ports.MCPStateProvider.
func (s *StateService) CreateTask(ctx context.Context, draft ports.TaskDraft) (*domain.Task, error) {
	return s.tasks.AddTask(ctx, AddTaskRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Category:    draft.Category,
		Tags:        draft.Tags,
	})
}

// CompleteTask implements ports.MCPStateProvider.
func (s *StateService) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.CompleteTask(ctx, id)
}

// GetStats implements ports.MCPStateProvider.
func (s *StateService) GetStats(ctx context.Context, period domain.StatsPeriod) (*domain.StatsSummary, error) {
	return s.stats.Summary(ctx, period)
}

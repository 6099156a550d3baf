// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// minIDPrefix is the shortest ID prefix accepted in place of a full task ID.
const minIDPrefix = 4

// TaskService handles task-related use cases.
type TaskService struct {
	storage ports.Storage
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage) *TaskService {
	return &TaskService{storage: storage}
}

// AddTaskRequest contains the data needed to create a new task.
type AddTaskRequest struct {
	Title            string
	Description      string
	Priority         string
	Category         string
	EstimatedMinutes int
	Tags             []string
}

// AddTask creates a new task.
func (s *TaskService) AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(strings.TrimSpace(req.Title))
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}
	if req.EstimatedMinutes < 0 {
		return nil, fmt.Errorf("invalid task: estimate %d: %w", req.EstimatedMinutes, domain.ErrInvalidDuration)
	}

	task.Description = req.Description
	task.Priority = priority
	task.Category = strings.TrimSpace(req.Category)
	task.EstimatedMinutes = req.EstimatedMinutes
	for _, tag := range req.Tags {
		task.AddTag(tag)
	}

	if err := s.storage.Tasks().Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	Filter   domain.TaskFilter
	Category string
}

// ListTasks retrieves tasks based on filters.
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	filter := req.Filter
	if filter == "" {
		filter = domain.FilterAll
	}
	return s.storage.Tasks().FindAll(ctx, ports.TaskQuery{Filter: filter, Category: req.Category})
}

// GetTask retrieves a single task by its ID or an unambiguous ID prefix.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.storage.Tasks().FindByID(ctx, id)
	if err == nil || !errors.Is(err, domain.ErrTaskNotFound) || len(id) < minIDPrefix {
		return task, err
	}

	all, err := s.storage.Tasks().FindAll(ctx, ports.TaskQuery{Filter: domain.FilterAll})
	if err != nil {
		return nil, err
	}
	var match *domain.Task
	for _, t := range all {
		if !strings.HasPrefix(t.ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("task id prefix %q is ambiguous", id)
		}
		match = t
	}
	if match == nil {
		return nil, domain.ErrTaskNotFound
	}
	return match, nil
}

// FindTasks does a fuzzy title search.
func (s *TaskService) FindTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	return s.storage.Tasks().FindByTitle(ctx, query)
}

// CompleteTask marks a task as completed.
func (s *TaskService) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Complete()
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// StartTask marks a task as in progress and returns it so the caller can
// hand its reference to the timer.
func (s *TaskService) StartTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Start()
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	return s.storage.Tasks().Delete(ctx, task.ID)
}

// ActiveTask returns the task currently in progress, or nil.
func (s *TaskService) ActiveTask(ctx context.Context) (*domain.Task, error) {
	return s.storage.Tasks().FindActive(ctx)
}

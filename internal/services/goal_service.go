package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// GoalService handles goal use cases.
type GoalService struct {
	storage ports.Storage
}

// NewGoalService creates a new goal service.
func NewGoalService(storage ports.Storage) *GoalService {
	return &GoalService{storage: storage}
}

// AddGoalRequest contains the data needed to create a goal.
type AddGoalRequest struct {
	Title    string
	Target   int
	Category string
	Deadline *time.Time
}

// AddGoal creates a goal.
func (s *GoalService) AddGoal(ctx context.Context, req AddGoalRequest) (*domain.Goal, error) {
	goal, err := domain.NewGoal(strings.TrimSpace(req.Title), req.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid goal: %w", err)
	}
	goal.Category = strings.TrimSpace(req.Category)
	goal.Deadline = req.Deadline

	if err := s.storage.Goals().Save(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns every goal.
func (s *GoalService) ListGoals(ctx context.Context) ([]*domain.Goal, error) {
	return s.storage.Goals().FindAll(ctx)
}

// GetGoal retrieves a goal by its ID or an unambiguous ID prefix.
func (s *GoalService) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	goal, err := s.storage.Goals().FindByID(ctx, id)
	if err == nil || !errors.Is(err, domain.ErrGoalNotFound) || len(id) < minIDPrefix {
		return goal, err
	}

	all, err := s.storage.Goals().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var match *domain.Goal
	for _, g := range all {
		if !strings.HasPrefix(g.ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("goal id prefix %q is ambiguous", id)
		}
		match = g
	}
	if match == nil {
		return nil, domain.ErrGoalNotFound
	}
	return match, nil
}

// UpdateProgress moves a goal's progress by delta.
func (s *GoalService) UpdateProgress(ctx context.Context, id string, delta int) (*domain.Goal, error) {
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}

	goal.AddProgress(delta)
	if err := s.storage.Goals().Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *GoalService) DeleteGoal(ctx context.Context, id string) error {
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return err
	}
	return s.storage.Goals().Delete(ctx, goal.ID)
}

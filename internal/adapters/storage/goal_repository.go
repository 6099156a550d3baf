package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const goalColumns = `id, title, category, target, progress, deadline, created_at, updated_at`

// goalRepository implements ports.GoalRepository using SQLite.
type goalRepository struct {
	db *sql.DB
}

func newGoalRepository(db *sql.DB) ports.GoalRepository {
	return &goalRepository{db: db}
}

// Save persists a goal.
func (r *goalRepository) Save(ctx context.Context, goal *domain.Goal) error {
	query := `INSERT INTO goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.Title,
		goal.Category,
		goal.Target,
		goal.Progress,
		goal.Deadline,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("goal %s already exists", goal.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// FindByID retrieves a goal by its identifier.
func (r *goalRepository) FindByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = ?`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}
	return goal, nil
}

// FindAll returns every goal, nearest deadline first.
func (r *goalRepository) FindAll(ctx context.Context) ([]*domain.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		ORDER BY deadline IS NULL, deadline ASC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []*domain.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update modifies an existing goal.
func (r *goalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	query := `
		UPDATE goals
		SET title = ?, category = ?, target = ?, progress = ?, deadline = ?, updated_at = ?
		WHERE id = ?
	`

	goal.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		goal.Title,
		goal.Category,
		goal.Target,
		goal.Progress,
		goal.Deadline,
		goal.UpdatedAt,
		goal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// Delete removes a goal.
func (r *goalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var goal domain.Goal
	var deadline sql.NullTime

	if err := row.Scan(
		&goal.ID,
		&goal.Title,
		&goal.Category,
		&goal.Target,
		&goal.Progress,
		&deadline,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if deadline.Valid {
		goal.Deadline = &deadline.Time
	}
	return &goal, nil
}

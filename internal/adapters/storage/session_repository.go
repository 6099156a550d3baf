package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const recordColumns = `id, task_id, task_title, type, duration_seconds, completed_at, git_branch, git_commit`

// sessionRepository implements ports.SessionRepository using SQLite.
type sessionRepository struct {
	db *sql.DB
}

// newSessionRepository creates a new session log repository.
func newSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{db: db}
}

// Save appends a record to the log.
func (r *sessionRepository) Save(ctx context.Context, record *domain.SessionRecord) error {
	query := `
		INSERT INTO session_records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.TaskID,
		record.TaskTitle,
		string(record.Type),
		int64(record.Duration/time.Second),
		record.CompletedAt,
		record.GitBranch,
		record.GitCommit,
	)

	if isUniqueConstraintError(err) {
		return fmt.Errorf("session record %s already exists", record.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}

	return nil
}

// FindRecent retrieves records completed at or after since.
func (r *sessionRepository) FindRecent(ctx context.Context, since time.Time) ([]*domain.SessionRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM session_records
		WHERE completed_at >= ?
		ORDER BY completed_at DESC
	`
	return r.query(ctx, query, since)
}

// FindByTask retrieves all records linked to a task.
func (r *sessionRepository) FindByTask(ctx context.Context, taskID string) ([]*domain.SessionRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM session_records
		WHERE task_id = ?
		ORDER BY completed_at DESC
	`
	return r.query(ctx, query, taskID)
}

// FindAll retrieves the whole log, oldest first.
func (r *sessionRepository) FindAll(ctx context.Context) ([]*domain.SessionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM session_records ORDER BY completed_at ASC`
	return r.query(ctx, query)
}

// GetDailyStats returns aggregated statistics for a specific date.
func (r *sessionRepository) GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	query := `
		SELECT
			COUNT(CASE WHEN type = 'work' THEN 1 END) AS work_sessions,
			COUNT(CASE WHEN type IN ('short_break', 'long_break') THEN 1 END) AS breaks,
			COALESCE(SUM(CASE WHEN type = 'work' THEN duration_seconds END), 0) AS focus_seconds
		FROM session_records
		WHERE completed_at >= ? AND completed_at < ?
	`

	stats := &domain.DailyStats{
		Date: startOfDay,
	}

	var focusSeconds int64
	err := r.db.QueryRowContext(ctx, query, startOfDay, endOfDay).Scan(
		&stats.WorkSessions,
		&stats.BreaksTaken,
		&focusSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	stats.FocusTime = time.Duration(focusSeconds) * time.Second

	return stats, nil
}

func (r *sessionRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query session records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.SessionRecord
	for rows.Next() {
		var record domain.SessionRecord
		var taskID sql.NullString
		var sessionType string
		var seconds int64

		if err := rows.Scan(
			&record.ID,
			&taskID,
			&record.TaskTitle,
			&sessionType,
			&seconds,
			&record.CompletedAt,
			&record.GitBranch,
			&record.GitCommit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session record: %w", err)
		}

		t, err := domain.ParseSessionType(sessionType)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", record.ID, err)
		}
		record.Type = t
		record.Duration = time.Duration(seconds) * time.Second
		if taskID.Valid {
			id := taskID.String
			record.TaskID = &id
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}

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

const eventColumns = `id, title, location, attendees, start_at, end_at, created_at, updated_at`

// eventRepository implements ports.EventRepository using SQLite.
// Start and end are stored in UTC so range queries compare consistently.
type eventRepository struct {
	db *sql.DB
}

func newEventRepository(db *sql.DB) ports.EventRepository {
	return &eventRepository{db: db}
}

// Save persists an event.
func (r *eventRepository) Save(ctx context.Context, event *domain.Event) error {
	query := `INSERT INTO events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Location,
		event.Attendees,
		event.Start.UTC(),
		event.End.UTC(),
		event.CreatedAt,
		event.UpdatedAt,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// FindByID retrieves an event by its identifier.
func (r *eventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// FindBetween returns events overlapping [from, to).
func (r *eventRepository) FindBetween(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE start_at < ? AND end_at > ?
		ORDER BY start_at ASC
	`
	return r.query(ctx, query, to.UTC(), from.UTC())
}

// FindAll returns every event.
func (r *eventRepository) FindAll(ctx context.Context) ([]*domain.Event, error) {
	return r.query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_at ASC`)
}

// Delete removes an event.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var event domain.Event

	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Location,
		&event.Attendees,
		&event.Start,
		&event.End,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}

	event.Start = event.Start.Local()
	event.End = event.End.Local()
	return &event, nil
}

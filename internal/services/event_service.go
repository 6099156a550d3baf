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

// upcomingWindow is how far ahead Upcoming looks.
const upcomingWindow = 24 * time.Hour

// EventService handles calendar event use cases.
type EventService struct {
	storage ports.Storage
	clock   ports.Clock
}

// NewEventService creates a new event service.
func NewEventService(storage ports.Storage, clock ports.Clock) *EventService {
	return &EventService{storage: storage, clock: clock}
}

// AddEventRequest contains the data needed to create an event.
type AddEventRequest struct {
	Title     string
	Start     time.Time
	Duration  time.Duration
	Location  string
	Attendees int
}

// AddEvent creates an event.
func (s *EventService) AddEvent(ctx context.Context, req AddEventRequest) (*domain.Event, error) {
	if req.Attendees < 0 {
		return nil, fmt.Errorf("invalid event: attendees must not be negative, got %d", req.Attendees)
	}
	event, err := domain.NewEvent(strings.TrimSpace(req.Title), req.Start, req.Start.Add(req.Duration))
	if err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	event.Location = strings.TrimSpace(req.Location)
	event.Attendees = req.Attendees

	if err := s.storage.Events().Save(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	return event, nil
}

// EventsOn returns the events overlapping the local day containing day.
func (s *EventService) EventsOn(ctx context.Context, day time.Time) ([]*domain.Event, error) {
	from, to := domain.DayBounds(day)
	return s.storage.Events().FindBetween(ctx, from, to)
}

// Upcoming returns events in progress or starting within the next day.
func (s *EventService) Upcoming(ctx context.Context) ([]*domain.Event, error) {
	now := s.clock.Now()
	return s.storage.Events().FindBetween(ctx, now, now.Add(upcomingWindow))
}

// GetEvent retrieves an event by its ID or an unambiguous ID prefix.
func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.storage.Events().FindByID(ctx, id)
	if err == nil || !errors.Is(err, domain.ErrEventNotFound) || len(id) < minIDPrefix {
		return event, err
	}

	all, err := s.storage.Events().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var match *domain.Event
	for _, e := range all {
		if !strings.HasPrefix(e.ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("event id prefix %q is ambiguous", id)
		}
		match = e
	}
	if match == nil {
		return nil, domain.ErrEventNotFound
	}
	return match, nil
}

// DeleteEvent removes an event.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	return s.storage.Events().Delete(ctx, event.ID)
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

func TestEventService(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	service := NewEventService(store, newFakeClock(now))
	ctx := context.Background()

	standup, err := service.AddEvent(ctx, AddEventRequest{
		Title:     "Team Standup",
		Start:     now.Add(-15 * time.Minute),
		Duration:  30 * time.Minute,
		Location:  " Conference Room A ",
		Attendees: 5,
	})
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if standup.Location != "Conference Room A" || standup.Attendees != 5 {
		t.Errorf("AddEvent() = %+v", standup)
	}

	review, err := service.AddEvent(ctx, AddEventRequest{Title: "Client Presentation", Start: now.Add(4 * time.Hour), Duration: time.Hour})
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if _, err := service.AddEvent(ctx, AddEventRequest{Title: "Next week", Start: now.AddDate(0, 0, 7), Duration: time.Hour}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if _, err := service.AddEvent(ctx, AddEventRequest{Title: "Finished", Start: now.Add(-2 * time.Hour), Duration: time.Hour}); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	if _, err := service.AddEvent(ctx, AddEventRequest{Title: " ", Start: now, Duration: time.Hour}); !errors.Is(err, domain.ErrEmptyEventTitle) {
		t.Errorf("AddEvent() error = %v, want %v", err, domain.ErrEmptyEventTitle)
	}
	if _, err := service.AddEvent(ctx, AddEventRequest{Title: "x", Start: now, Duration: 0}); !errors.Is(err, domain.ErrInvalidEventTime) {
		t.Errorf("AddEvent() error = %v, want %v", err, domain.ErrInvalidEventTime)
	}
	if _, err := service.AddEvent(ctx, AddEventRequest{Title: "x", Start: now, Duration: time.Hour, Attendees: -1}); err == nil {
		t.Error("AddEvent() with negative attendees should fail")
	}

	today, err := service.EventsOn(ctx, now)
	if err != nil {
		t.Fatalf("EventsOn() error = %v", err)
	}
	if len(today) != 3 {
		t.Fatalf("EventsOn() = %d events, want 3", len(today))
	}
	if today[0].Title != "Finished" || today[1].ID != standup.ID || today[2].ID != review.ID {
		t.Errorf("EventsOn() order = %s, %s, %s", today[0].Title, today[1].Title, today[2].Title)
	}

	upcoming, err := service.Upcoming(ctx)
	if err != nil {
		t.Fatalf("Upcoming() error = %v", err)
	}
	if len(upcoming) != 2 || upcoming[0].ID != standup.ID || upcoming[1].ID != review.ID {
		t.Errorf("Upcoming() = %+v, want the ongoing standup and the presentation", upcoming)
	}

	byPrefix, err := service.GetEvent(ctx, review.ID[:8])
	if err != nil || byPrefix.ID != review.ID {
		t.Errorf("GetEvent(prefix) = %v, %v", byPrefix, err)
	}

	if err := service.DeleteEvent(ctx, standup.ID); err != nil {
		t.Errorf("DeleteEvent() error = %v", err)
	}
	if err := service.DeleteEvent(ctx, standup.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("DeleteEvent() error = %v, want %v", err, domain.ErrEventNotFound)
	}
}

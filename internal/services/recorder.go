package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// SessionRecorder reacts to completion events: it appends the session to
// the log, credits the linked task and notifies the user.
type SessionRecorder struct {
	storage     ports.Storage
	clock       ports.Clock
	logger      *slog.Logger
	gitDetector ports.GitDetector
	workingDir  string
	notifier    ports.Notifier
}

// NewSessionRecorder creates a recorder writing to storage.
func NewSessionRecorder(storage ports.Storage, clock ports.Clock, logger *slog.Logger) *SessionRecorder {
	return &SessionRecorder{storage: storage, clock: clock, logger: logger}
}

// SetGitDetector enables stamping work sessions with the git context of dir.
func (r *SessionRecorder) SetGitDetector(detector ports.GitDetector, dir string) {
	r.gitDetector = detector
	r.workingDir = dir
}

// SetNotifier sets the notifier used after each completion.
func (r *SessionRecorder) SetNotifier(notifier ports.Notifier) {
	r.notifier = notifier
}

// Record handles a single completion event.
func (r *SessionRecorder) Record(ctx context.Context, event domain.SessionComplete) (*domain.SessionRecord, error) {
	record := domain.NewSessionRecord(event, r.clock.Now())

	if record.IsWork() && r.gitDetector != nil && r.gitDetector.IsAvailable() {
		info, err := r.gitDetector.Detect(ctx, r.workingDir)
		if err == nil && info != nil {
			record.SetGitContext(info.Branch, info.Commit)
		}
	}

	task, err := r.linkedTask(ctx, event)
	if err != nil {
		return nil, err
	}
	if task == nil {
		record.TaskID = nil
	}

	if err := r.storage.Sessions().Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save session record: %w", err)
	}

	if record.IsWork() && task != nil {
		task.CreditFocus(event.TotalSeconds)
		if err := r.storage.Tasks().Update(ctx, task); err != nil {
			return record, fmt.Errorf("failed to credit task: %w", err)
		}
	}

	if r.notifier != nil {
		if err := r.notifier.NotifySessionComplete(event); err != nil {
			r.logger.Warn("notification failed", "error", err)
		}
	}

	r.logger.Info("session recorded", "id", record.ID, "type", record.Type, "duration", record.Duration)
	return record, nil
}

// linkedTask loads the task named by the event. A task deleted while the
// session ran is logged and treated as no task.
func (r *SessionRecorder) linkedTask(ctx context.Context, event domain.SessionComplete) (*domain.Task, error) {
	if event.Task == nil {
		return nil, nil
	}
	task, err := r.storage.Tasks().FindByID(ctx, event.Task.ID)
	if errors.Is(err, domain.ErrTaskNotFound) {
		r.logger.Warn("completed session refers to a missing task", "task_id", event.Task.ID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Consume records every event until the channel closes or ctx is done.
// Failures are logged; the loop keeps going.
func (r *SessionRecorder) Consume(ctx context.Context, events <-chan domain.SessionComplete) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, err := r.Record(ctx, ev); err != nil {
				r.logger.Error("failed to record session", "error", err)
			}
		}
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

func TestSessionRecorder_RecordWorkSession(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	task, err := NewTaskService(store).AddTask(ctx, AddTaskRequest{Title: "Report"})
	require.NoError(t, err)

	clock := newFakeClock(time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local))
	notifier := &fakeNotifier{}
	recorder := NewSessionRecorder(store, clock, discardLogger())
	recorder.SetGitDetector(&fakeGitDetector{info: &ports.GitInfo{Branch: "main", Commit: "abc1234"}}, ".")
	recorder.SetNotifier(notifier)

	event := domain.SessionComplete{
		Type:                  domain.SessionTypeWork,
		Task:                  task.Ref(),
		TotalSeconds:          1500,
		CompletedWorkSessions: 1,
	}
	record, err := recorder.Record(ctx, event)
	require.NoError(t, err)

	assert.Equal(t, "main", record.GitBranch)
	assert.Equal(t, "abc1234", record.GitCommit)
	assert.True(t, record.CompletedAt.Equal(clock.Now()))

	credited, err := store.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500, credited.FocusSeconds)

	history, err := store.Sessions().FindByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.ID, history[0].ID)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, domain.SessionTypeWork, notifier.events[0].Type)
}

func TestSessionRecorder_BreakIsNotCredited(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	task, err := NewTaskService(store).AddTask(ctx, AddTaskRequest{Title: "Report"})
	require.NoError(t, err)

	recorder := NewSessionRecorder(store, newFakeClock(time.Now()), discardLogger())
	recorder.SetGitDetector(&fakeGitDetector{info: &ports.GitInfo{Branch: "main"}}, ".")

	record, err := recorder.Record(ctx, domain.SessionComplete{
		Type:         domain.SessionTypeShortBreak,
		Task:         task.Ref(),
		TotalSeconds: 300,
	})
	require.NoError(t, err)
	assert.Empty(t, record.GitBranch, "breaks carry no git context")

	found, err := store.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Zero(t, found.FocusSeconds)
}

func TestSessionRecorder_MissingTask(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	recorder := NewSessionRecorder(store, newFakeClock(time.Now()), discardLogger())

	record, err := recorder.Record(ctx, domain.SessionComplete{
		Type:         domain.SessionTypeWork,
		Task:         &domain.ActiveTaskRef{ID: "deleted", Title: "Gone"},
		TotalSeconds: 60,
	})
	require.NoError(t, err)
	assert.Nil(t, record.TaskID)
	assert.Equal(t, "Gone", record.TaskTitle)

	all, err := store.Sessions().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSessionRecorder_NotifierFailureIsIgnored(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	recorder := NewSessionRecorder(store, newFakeClock(time.Now()), discardLogger())
	recorder.SetNotifier(&fakeNotifier{err: errNotifyFailed})

	_, err := recorder.Record(context.Background(), domain.SessionComplete{Type: domain.SessionTypeWork, TotalSeconds: 60})
	assert.NoError(t, err)
}

func TestSessionRecorder_Consume(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	clock := newFakeClock(time.Now())
	recorder := NewSessionRecorder(store, clock, discardLogger())

	events := make(chan domain.SessionComplete, 3)
	events <- domain.SessionComplete{Type: domain.SessionTypeWork, TotalSeconds: 1500}
	events <- domain.SessionComplete{Type: domain.SessionTypeShortBreak, TotalSeconds: 300}
	events <- domain.SessionComplete{Type: domain.SessionTypeWork, TotalSeconds: 1500}
	close(events)

	recorder.Consume(ctx, events)

	stats, err := store.Sessions().GetDailyStats(ctx, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WorkSessions)
	assert.Equal(t, 1, stats.BreaksTaken)
	assert.Equal(t, 50*time.Minute, stats.FocusTime)
}

func TestSessionRecorder_WithRunner(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	h := startRunner(t, testTimerConfig(1, 1, 1))
	recorder := NewSessionRecorder(store, h.clock, discardLogger())

	consumed := make(chan struct{})
	go func() {
		recorder.Consume(context.Background(), h.runner.Events())
		close(consumed)
	}()

	h.apply(t, ports.CmdStart)
	h.tick(t)
	h.apply(t, ports.CmdAcknowledge)
	h.apply(t, ports.CmdStart)
	h.tick(t)

	h.cancel()
	<-h.runner.Done()
	<-consumed

	records, err := store.Sessions().FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	types := []domain.SessionType{records[0].Type, records[1].Type}
	assert.ElementsMatch(t, []domain.SessionType{domain.SessionTypeWork, domain.SessionTypeShortBreak}, types)
}

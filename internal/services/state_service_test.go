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

func TestStateService_GetCurrentState(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	clock := newFakeClock(time.Now())
	recorder := NewSessionRecorder(store, clock, discardLogger())
	_, err := recorder.Record(ctx, domain.SessionComplete{Type: domain.SessionTypeWork, TotalSeconds: 1500})
	require.NoError(t, err)

	svc := NewStateService(store, clock)

	state, err := svc.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.Timer, "no timer attached")
	assert.Equal(t, 1, state.TodayStats.WorkSessions)
	assert.Equal(t, 25*time.Minute, state.TodayStats.FocusTime)

	h := startRunner(t, testTimerConfig(10, 5, 15))
	svc.SetTimer(h.runner)
	h.apply(t, ports.CmdStart)

	state, err = svc.GetCurrentState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.Timer)
	assert.True(t, state.IsCountingDown())
}

func TestStateService_Queries(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	task, err := NewTaskService(store).AddTask(ctx, AddTaskRequest{Title: "Report"})
	require.NoError(t, err)

	clock := newFakeClock(time.Now())
	recorder := NewSessionRecorder(store, clock, discardLogger())
	for i := 0; i < 3; i++ {
		_, err := recorder.Record(ctx, domain.SessionComplete{Type: domain.SessionTypeWork, Task: task.Ref(), TotalSeconds: 60})
		require.NoError(t, err)
		clock.advance(time.Minute)
	}

	svc := NewStateService(store, clock)

	tasks, err := svc.ListTasks(ctx, ports.TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	history, err := svc.GetTaskHistory(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	recent, err := svc.GetRecentSessions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestStateService_TaskOperations(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	svc := NewStateService(store, newFakeClock(time.Now()))

	task, err := svc.CreateTask(ctx, ports.TaskDraft{Title: "Report", Priority: "high", Tags: []string{"work"}})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, task.Priority)

	_, err = svc.CreateTask(ctx, ports.TaskDraft{Title: " "})
	assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)

	found, err := svc.GetTask(ctx, task.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)

	done, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done.IsDone())

	summary, err := svc.GetStats(ctx, domain.PeriodWeek)
	require.NoError(t, err)
	assert.Zero(t, summary.WorkSessions)
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

func newTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	store, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title)
	require.NoError(t, err)
	return task
}

func TestNewMemory(t *testing.T) {
	store := newTestStorage(t)
	assert.NotNil(t, store.Tasks())
	assert.NotNil(t, store.Goals())
	assert.NotNil(t, store.Sessions())
	assert.NotNil(t, store.Events())

	// Migrate is idempotent.
	assert.NoError(t, store.Migrate())
}

func TestNew_File(t *testing.T) {
	path := t.TempDir() + "/focus.db"

	store, err := New(path)
	require.NoError(t, err)
	task := newTask(t, "Persisted")
	require.NoError(t, store.Tasks().Save(context.Background(), task))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	found, err := reopened.Tasks().FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", found.Title)
}

func TestTaskRepository_SaveAndFind(t *testing.T) {
	repo := newTestStorage(t).Tasks()
	ctx := context.Background()

	task := newTask(t, "Find Me")
	task.Description = "details"
	task.Priority = domain.PriorityHigh
	task.Category = "work"
	task.EstimatedMinutes = 50
	task.AddTag("docs")
	task.AddTag("q3")
	require.NoError(t, repo.Save(ctx, task))

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, found.Title)
	assert.Equal(t, "details", found.Description)
	assert.Equal(t, domain.StatusPending, found.Status)
	assert.Equal(t, domain.PriorityHigh, found.Priority)
	assert.Equal(t, "work", found.Category)
	assert.Equal(t, 50, found.EstimatedMinutes)
	assert.Equal(t, []string{"docs", "q3"}, found.Tags)
	assert.Nil(t, found.CompletedAt)
	assert.WithinDuration(t, task.CreatedAt, found.CreatedAt, time.Second)

	_, err = repo.FindByID(ctx, "non-existent")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	assert.Error(t, repo.Save(ctx, task), "saving the same id twice")
}

func TestTaskRepository_FindAll(t *testing.T) {
	repo := newTestStorage(t).Tasks()
	ctx := context.Background()

	low := newTask(t, "Low")
	low.Priority = domain.PriorityLow
	high := newTask(t, "High")
	high.Priority = domain.PriorityHigh
	high.Category = "work"
	done := newTask(t, "Done")
	done.Complete()
	cancelled := newTask(t, "Cancelled")
	cancelled.Cancel()
	for _, task := range []*domain.Task{low, high, done, cancelled} {
		require.NoError(t, repo.Save(ctx, task))
	}

	tests := []struct {
		name  string
		query ports.TaskQuery
		want  []string
	}{
		{"all", ports.TaskQuery{Filter: domain.FilterAll}, []string{"High", "Low", "Done", "Cancelled"}},
		{"pending", ports.TaskQuery{Filter: domain.FilterPending}, []string{"High", "Low"}},
		{"completed", ports.TaskQuery{Filter: domain.FilterCompleted}, []string{"Done"}},
		{"category", ports.TaskQuery{Filter: domain.FilterAll, Category: "work"}, []string{"High"}},
		{"no match", ports.TaskQuery{Filter: domain.FilterCompleted, Category: "work"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.FindAll(ctx, tt.query)
			require.NoError(t, err)

			var titles []string
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			if tt.name == "all" {
				assert.ElementsMatch(t, tt.want, titles)
				assert.Equal(t, []string{"High", "Low"}, titles[:2], "open tasks first, by priority")
				return
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestTaskRepository_FindActive(t *testing.T) {
	repo := newTestStorage(t).Tasks()
	ctx := context.Background()

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	task := newTask(t, "Working")
	require.NoError(t, repo.Save(ctx, task))
	task.Start()
	require.NoError(t, repo.Update(ctx, task))

	active, err = repo.FindActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, task.ID, active.ID)
}

func TestTaskRepository_FindByTitle(t *testing.T) {
	repo := newTestStorage(t).Tasks()
	ctx := context.Background()

	for _, title := range []string{"Write report", "Review pull request", "Groceries"} {
		require.NoError(t, repo.Save(ctx, newTask(t, title)))
	}

	matches, err := repo.FindByTitle(ctx, "report")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Write report", matches[0].Title)

	matches, err = repo.FindByTitle(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = repo.FindByTitle(ctx, "")
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestTaskRepository_Update(t *testing.T) {
	repo := newTestStorage(t).Tasks()
	ctx := context.Background()

	task := newTask(t, "Original")
	require.NoError(t, repo.Save(ctx, task))

	task.Title = "Renamed"
	task.CreditFocus(1500)
	task.Complete()
	require.NoError(t, repo.Update(ctx, task))

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Title)
	assert.Equal(t, 1500, found.FocusSeconds)
	assert.Equal(t, domain.StatusCompleted, found.Status)
	assert.NotNil(t, found.CompletedAt)

	missing := newTask(t, "Missing")
	assert.ErrorIs(t, repo.Update(ctx, missing), domain.ErrTaskNotFound)
}

func TestTaskRepository_Delete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	task := newTask(t, "Delete me")
	require.NoError(t, store.Tasks().Save(ctx, task))

	taskID := task.ID
	record := domain.NewSessionRecord(domain.SessionComplete{
		Type:         domain.SessionTypeWork,
		Task:         task.Ref(),
		TotalSeconds: 60,
	}, time.Now())
	require.NoError(t, store.Sessions().Save(ctx, record))

	require.NoError(t, store.Tasks().Delete(ctx, taskID))
	assert.ErrorIs(t, store.Tasks().Delete(ctx, taskID), domain.ErrTaskNotFound)

	// The log keeps the record and its title but drops the link.
	records, err := store.Sessions().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].TaskID)
	assert.Equal(t, "Delete me", records[0].TaskTitle)
}

func TestGoalRepository(t *testing.T) {
	repo := newTestStorage(t).Goals()
	ctx := context.Background()

	later := time.Now().Add(72 * time.Hour)
	sooner := time.Now().Add(24 * time.Hour)

	open, err := domain.NewGoal("Open ended", 10)
	require.NoError(t, err)
	farGoal, err := domain.NewGoal("Far", 5)
	require.NoError(t, err)
	farGoal.Deadline = &later
	nearGoal, err := domain.NewGoal("Near", 3)
	require.NoError(t, err)
	nearGoal.Deadline = &sooner
	nearGoal.Category = "health"

	for _, g := range []*domain.Goal{open, farGoal, nearGoal} {
		require.NoError(t, repo.Save(ctx, g))
	}

	goals, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, "Near", goals[0].Title)
	assert.Equal(t, "Far", goals[1].Title)
	assert.Equal(t, "Open ended", goals[2].Title)
	assert.Equal(t, "health", goals[0].Category)
	require.NotNil(t, goals[0].Deadline)

	nearGoal.AddProgress(2)
	require.NoError(t, repo.Update(ctx, nearGoal))
	found, err := repo.FindByID(ctx, nearGoal.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Progress)

	require.NoError(t, repo.Delete(ctx, open.ID))
	_, err = repo.FindByID(ctx, open.ID)
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, open.ID), domain.ErrGoalNotFound)
	assert.ErrorIs(t, repo.Update(ctx, open), domain.ErrGoalNotFound)
}

func TestSessionRepository_SaveAndQuery(t *testing.T) {
	store := newTestStorage(t)
	repo := store.Sessions()
	ctx := context.Background()

	task := newTask(t, "Report")
	require.NoError(t, store.Tasks().Save(ctx, task))

	now := time.Now()
	old := domain.NewSessionRecord(domain.SessionComplete{Type: domain.SessionTypeWork, TotalSeconds: 1500}, now.AddDate(0, 0, -10))
	linked := domain.NewSessionRecord(domain.SessionComplete{Type: domain.SessionTypeWork, Task: task.Ref(), TotalSeconds: 1500}, now.Add(-time.Hour))
	linked.SetGitContext("main", "abc1234")
	brk := domain.NewSessionRecord(domain.SessionComplete{Type: domain.SessionTypeShortBreak, TotalSeconds: 300}, now.Add(-30*time.Minute))

	for _, r := range []*domain.SessionRecord{old, linked, brk} {
		require.NoError(t, repo.Save(ctx, r))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, old.ID, all[0].ID, "oldest first")

	recent, err := repo.FindRecent(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, brk.ID, recent[0].ID, "newest first")

	byTask, err := repo.FindByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, byTask, 1)
	got := byTask[0]
	assert.Equal(t, domain.SessionTypeWork, got.Type)
	assert.Equal(t, 25*time.Minute, got.Duration)
	require.NotNil(t, got.TaskID)
	assert.Equal(t, task.ID, *got.TaskID)
	assert.Equal(t, "Report", got.TaskTitle)
	assert.Equal(t, "main", got.GitBranch)
	assert.Equal(t, "abc1234", got.GitCommit)
}

func TestSessionRepository_GetDailyStats(t *testing.T) {
	repo := newTestStorage(t).Sessions()
	ctx := context.Background()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())

	records := []*domain.SessionRecord{
		domain.NewSessionRecord(domain.SessionComplete{Type: domain.SessionTypeWork, TotalSeconds: 1500}, today),
		domain.NewSessionRecord(domain.SessionComplete{Type: domain.SessionTypeWork, TotalSeconds: 2700}, today.Add(time.Hour)),
		domain.NewSessionRecord(domain.SessionComplete{Type: domain.SessionTypeLongBreak, TotalSeconds: 900}, today.Add(2*time.Hour)),
		domain.NewSessionRecord(domain.SessionComplete{Type: domain.SessionTypeWork, TotalSeconds: 1500}, today.AddDate(0, 0, -1)),
	}
	for _, r := range records {
		require.NoError(t, repo.Save(ctx, r))
	}

	stats, err := repo.GetDailyStats(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.WorkSessions)
	assert.Equal(t, 1, stats.BreaksTaken)
	assert.Equal(t, 70*time.Minute, stats.FocusTime)

	empty, err := repo.GetDailyStats(ctx, today.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Zero(t, empty.WorkSessions)
	assert.Zero(t, empty.FocusTime)
}

func TestEventRepository(t *testing.T) {
	repo := newTestStorage(t).Events()
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	newEvent := func(title string, start time.Time, length time.Duration) *domain.Event {
		event, err := domain.NewEvent(title, start, start.Add(length))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, event))
		return event
	}

	review := newEvent("Project Review", day.Add(16*time.Hour), time.Hour)
	standup := newEvent("Team Standup", day.Add(9*time.Hour), 30*time.Minute)
	overnight := newEvent("Deploy window", day.Add(-time.Hour), 2*time.Hour)
	newEvent("Tomorrow", day.AddDate(0, 0, 1).Add(9*time.Hour), time.Hour)

	found, err := repo.FindByID(ctx, standup.ID)
	require.NoError(t, err)
	assert.Equal(t, "Team Standup", found.Title)
	assert.True(t, found.Start.Equal(standup.Start), "start = %v, want %v", found.Start, standup.Start)
	assert.True(t, found.End.Equal(standup.End))

	events, err := repo.FindBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, overnight.ID, events[0].ID)
	assert.Equal(t, standup.ID, events[1].ID)
	assert.Equal(t, review.ID, events[2].ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	require.NoError(t, repo.Delete(ctx, standup.ID))
	_, err = repo.FindByID(ctx, standup.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, standup.ID), domain.ErrEventNotFound)
}

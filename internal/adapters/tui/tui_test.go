package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func secondsTimer(work, short, long int) *domain.SessionTimer {
	return domain.NewSessionTimer(domain.TimerConfig{
		WorkDuration:       time.Duration(work) * time.Second,
		ShortBreakDuration: time.Duration(short) * time.Second,
		LongBreakDuration:  time.Duration(long) * time.Second,
		LongBreakInterval:  4,
	})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	result, cmd := m.Update(msg)
	updated, ok := result.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", result)
	}
	return updated, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, key(k))
	}
	return m
}

func tick(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tickMsg{gen: m.gen})
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{1500, "25:00"},
		{300, "05:00"},
		{90, "01:30"},
		{0, "00:00"},
		{3600, "60:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatSeconds(tt.seconds); got != tt.want {
				t.Errorf("formatSeconds(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatMinutesCompact(t *testing.T) {
	if got := formatMinutesCompact(25 * time.Minute); got != "25m" {
		t.Errorf("formatMinutesCompact(25m) = %q, want 25m", got)
	}
	if got := formatMinutesCompact(65 * time.Minute); got != "1h5m" {
		t.Errorf("formatMinutesCompact(65m) = %q, want 1h5m", got)
	}
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(Options{})

	if m.timer == nil {
		t.Fatal("NewModel() should create a timer")
	}
	if got := m.timer.State().RemainingSeconds; got != 1500 {
		t.Errorf("RemainingSeconds = %d, want 1500", got)
	}
	if len(m.presets) != 4 {
		t.Errorf("presets = %v, want the 4 defaults", m.presets)
	}
	if m.theme != config.DefaultThemeConfig() {
		t.Error("theme should default to DefaultThemeConfig")
	}
}

func TestResolveTheme_FillsBlanks(t *testing.T) {
	theme := config.ThemeConfig{ColorWork: "#000000"}
	resolved := resolveTheme(&theme)

	if resolved.ColorWork != "#000000" {
		t.Errorf("ColorWork = %q, want override kept", resolved.ColorWork)
	}
	if resolved.ColorBreak != config.DefaultThemeConfig().ColorBreak {
		t.Errorf("ColorBreak = %q, want default", resolved.ColorBreak)
	}
}

func TestModel_StartAndTick(t *testing.T) {
	m := NewModel(Options{Timer: secondsTimer(10, 5, 15)})

	m, cmd := update(t, m, key(" "))
	if !m.timer.State().Running {
		t.Fatal("space should start the timer")
	}
	if cmd == nil {
		t.Fatal("starting should schedule a tick")
	}

	m, cmd = tick(t, m)
	m, _ = tick(t, m)
	if got := m.timer.State().RemainingSeconds; got != 8 {
		t.Errorf("RemainingSeconds = %d, want 8", got)
	}
	if cmd == nil {
		t.Error("a running timer should schedule the next tick")
	}
}

func TestModel_StaleTickAfterPause(t *testing.T) {
	m := NewModel(Options{Timer: secondsTimer(10, 5, 15)})
	m = press(t, m, " ")
	staleGen := m.gen

	m = press(t, m, "p")
	if m.timer.State().Running {
		t.Fatal("p should pause the timer")
	}

	m, cmd := update(t, m, tickMsg{gen: staleGen})
	if got := m.timer.State().RemainingSeconds; got != 10 {
		t.Errorf("RemainingSeconds = %d after stale tick, want 10", got)
	}
	if cmd != nil {
		t.Error("a stale tick should not schedule another")
	}

	// Resuming must not revive ticks from the earlier run.
	m = press(t, m, " ")
	m, _ = update(t, m, tickMsg{gen: staleGen})
	if got := m.timer.State().RemainingSeconds; got != 10 {
		t.Errorf("RemainingSeconds = %d after resumed stale tick, want 10", got)
	}
	m, _ = tick(t, m)
	if got := m.timer.State().RemainingSeconds; got != 9 {
		t.Errorf("RemainingSeconds = %d, want 9", got)
	}
}

func TestModel_CompletionRecordsOnce(t *testing.T) {
	var recorded []domain.SessionComplete
	m := NewModel(Options{
		Timer: secondsTimer(2, 5, 15),
		Record: func(ev domain.SessionComplete) error {
			recorded = append(recorded, ev)
			return nil
		},
	})
	m.timer.SetActiveTask(&domain.ActiveTaskRef{ID: "t1", Title: "Write report"})

	m = press(t, m, " ")
	m, _ = tick(t, m)
	m, cmd := tick(t, m)
	if m.timer.Pending() == nil {
		t.Fatal("session should be pending acknowledgement")
	}
	if cmd == nil {
		t.Fatal("completion should return a record command")
	}

	msg := cmd()
	if _, ok := msg.(recordedMsg); !ok {
		t.Fatalf("record command returned %T, want recordedMsg", msg)
	}
	if len(recorded) != 1 {
		t.Fatalf("recorded %d events, want 1", len(recorded))
	}
	if recorded[0].Type != domain.SessionTypeWork || recorded[0].Task == nil || recorded[0].Task.ID != "t1" {
		t.Errorf("recorded = %+v", recorded[0])
	}

	m, cmd = tick(t, m)
	if cmd != nil || len(recorded) != 1 {
		t.Error("ticks after completion must not complete again")
	}
}

func TestModel_AcknowledgeCompletion(t *testing.T) {
	m := NewModel(Options{Timer: secondsTimer(1, 5, 15)})
	m = press(t, m, " ")
	m, _ = tick(t, m)

	m, cmd := update(t, m, key("enter"))
	state := m.timer.State()
	if state.Type != domain.SessionTypeShortBreak {
		t.Errorf("Type = %v, want short_break", state.Type)
	}
	if state.Running || cmd != nil {
		t.Error("break should wait for the user without auto-start")
	}

	m, cmd = update(t, m, key("enter"))
	if cmd != nil {
		t.Error("enter with nothing pending should be a no-op")
	}
}

func TestModel_AcknowledgeAutoStartsBreak(t *testing.T) {
	timer := domain.NewSessionTimer(domain.TimerConfig{
		WorkDuration:       time.Second,
		ShortBreakDuration: 3 * time.Second,
		LongBreakDuration:  5 * time.Second,
		LongBreakInterval:  4,
		AutoStartBreaks:    true,
	})
	m := NewModel(Options{Timer: timer})
	m = press(t, m, " ")
	m, _ = tick(t, m)

	m, cmd := update(t, m, key("enter"))
	if !m.timer.State().Running {
		t.Fatal("break should auto-start")
	}
	if cmd == nil {
		t.Fatal("auto-started break should schedule a tick")
	}
	m, _ = tick(t, m)
	if got := m.timer.State().RemainingSeconds; got != 2 {
		t.Errorf("RemainingSeconds = %d, want 2", got)
	}
}

func TestModel_Keys(t *testing.T) {
	tests := []struct {
		name          string
		keys          []string
		wantTotal     int
		wantRemaining int
		wantRunning   bool
	}{
		{"preset 3", []string{"3"}, 2700, 2700, false},
		{"preset while running", []string{" ", "1"}, 900, 900, false},
		{"preset out of range", []string{"5"}, 1500, 1500, false},
		{"reset", []string{" ", "r"}, 1500, 1500, false},
		{"stop", []string{" ", "x"}, 1500, 1500, false},
		{"pause then resume", []string{" ", "p", "p"}, 1500, 1500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(Options{Presets: []int{15, 25, 45, 60}})
			m = press(t, m, tt.keys...)
			state := m.timer.State()
			if state.TotalSeconds != tt.wantTotal || state.RemainingSeconds != tt.wantRemaining {
				t.Errorf("total/remaining = %d/%d, want %d/%d",
					state.TotalSeconds, state.RemainingSeconds, tt.wantTotal, tt.wantRemaining)
			}
			if state.Running != tt.wantRunning {
				t.Errorf("Running = %v, want %v", state.Running, tt.wantRunning)
			}
		})
	}
}

func TestModel_ResetKeepsTickGenerationFresh(t *testing.T) {
	m := NewModel(Options{Timer: secondsTimer(10, 5, 15)})
	m = press(t, m, " ")
	before := m.gen
	m = press(t, m, "r")
	if m.gen == before {
		t.Error("reset should invalidate pending ticks")
	}
}

func TestModel_ClearTask(t *testing.T) {
	m := NewModel(Options{})
	m.timer.SetActiveTask(&domain.ActiveTaskRef{ID: "t1", Title: "Report"})

	m = press(t, m, "c")
	if m.timer.ActiveTask() != nil {
		t.Error("c should clear the active task")
	}
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(Options{})
	m = press(t, m, " ")
	gen := m.gen

	m, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if m.gen == gen {
		t.Error("quitting should drop outstanding ticks")
	}
}

func sampleTasks(t *testing.T) []*domain.Task {
	t.Helper()
	var tasks []*domain.Task
	for _, title := range []string{"Write report", "Review pull request", "Plan sprint", "Old chore"} {
		task, err := domain.NewTask(title)
		if err != nil {
			t.Fatal(err)
		}
		tasks = append(tasks, task)
	}
	tasks[3].Complete()
	return tasks
}

func TestModel_TaskPicker(t *testing.T) {
	tasks := sampleTasks(t)
	m := NewModel(Options{ListTasks: func() ([]*domain.Task, error) { return tasks, nil }})

	m, cmd := update(t, m, key("t"))
	if m.picker == nil {
		t.Fatal("t should open the task picker")
	}
	if cmd == nil {
		t.Fatal("opening the picker should fetch tasks")
	}

	m, _ = update(t, m, tasksMsg{tasks: tasks})
	if got := len(m.picker.matches); got != 3 {
		t.Errorf("matches = %d, want 3 open tasks", got)
	}

	m = press(t, m, "p", "l", "a", "n")
	if got := len(m.picker.matches); got != 1 || m.picker.matches[0].Title != "Plan sprint" {
		t.Errorf("matches = %v, want [Plan sprint]", m.picker.matches)
	}
	if m.timer.State().Running {
		t.Error("typing in the picker must not control the timer")
	}

	m = press(t, m, "enter")
	if m.picker != nil {
		t.Error("enter should close the picker")
	}
	ref := m.timer.ActiveTask()
	if ref == nil || ref.ID != tasks[2].ID {
		t.Errorf("ActiveTask() = %+v, want %s", ref, tasks[2].ID)
	}
}

func TestModel_TaskPickerNavigateAndDismiss(t *testing.T) {
	tasks := sampleTasks(t)
	m := NewModel(Options{ListTasks: func() ([]*domain.Task, error) { return tasks, nil }})
	m = press(t, m, "t")
	m, _ = update(t, m, tasksMsg{tasks: tasks})

	m = press(t, m, "down", "enter")
	if ref := m.timer.ActiveTask(); ref == nil || ref.ID != tasks[1].ID {
		t.Errorf("ActiveTask() = %+v, want second task", ref)
	}

	m = press(t, m, "t", "esc")
	if m.picker != nil {
		t.Error("esc should close the picker")
	}
	if ref := m.timer.ActiveTask(); ref == nil || ref.ID != tasks[1].ID {
		t.Error("dismissing the picker should keep the current task")
	}
}

func TestModel_PickerWithoutSource(t *testing.T) {
	m := NewModel(Options{})
	m = press(t, m, "t")
	if m.picker != nil {
		t.Error("picker should not open without a task source")
	}
}

func TestModel_StateAndRecordMessages(t *testing.T) {
	m := NewModel(Options{})

	m, _ = update(t, m, stateMsg{state: &domain.CurrentState{
		TodayStats: domain.DailyStats{WorkSessions: 3, FocusTime: 75 * time.Minute},
	}})
	if m.today.WorkSessions != 3 {
		t.Errorf("today.WorkSessions = %d, want 3", m.today.WorkSessions)
	}

	boom := errors.New("disk full")
	m, _ = update(t, m, recordedMsg{err: boom})
	if !errors.Is(m.lastErr, boom) {
		t.Errorf("lastErr = %v, want %v", m.lastErr, boom)
	}

	m.width, m.height = 100, 40
	if !strings.Contains(m.View(), "disk full") {
		t.Error("View() should show the record error")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(Options{})
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before size = %q, want Loading...", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.timer.SetActiveTask(&domain.ActiveTaskRef{ID: "t1", Title: "Write report"})

	view := m.View()
	for _, want := range []string{"Focus Time", "Ready", "Write report", "[1] 15m", "[space] start"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_CompletionView(t *testing.T) {
	m := NewModel(Options{Timer: secondsTimer(1, 5, 15)})
	m.width, m.height = 100, 40
	m.timer.SetActiveTask(&domain.ActiveTaskRef{ID: "t1", Title: "Write report"})
	m = press(t, m, " ")
	m, _ = tick(t, m)

	view := m.View()
	for _, want := range []string{"Great Work!", "Write report", "Start Break", "Short Break", "1 of 4 sessions"} {
		if !strings.Contains(view, want) {
			t.Errorf("completion View() missing %q", want)
		}
	}

	m = press(t, m, "enter", " ")
	for i := 0; i < 5; i++ {
		m, _ = tick(t, m)
	}
	view = m.View()
	for _, want := range []string{"Break Complete!", "Start Focus"} {
		if !strings.Contains(view, want) {
			t.Errorf("break completion View() missing %q", want)
		}
	}
}

func TestModel_InlineView(t *testing.T) {
	m := NewModel(Options{Inline: true})
	view := m.View()
	if !strings.Contains(view, "Focus Time") || !strings.Contains(view, "[space]") {
		t.Errorf("inline View() = %q", view)
	}
	if strings.Count(view, "\n") != 3 {
		t.Errorf("inline View() should be three lines, got %q", view)
	}
}

func TestRenderBigTime(t *testing.T) {
	narrow := renderBigTime("25:00", lipgloss.Color("#FFFFFF"), 30)
	if !strings.Contains(narrow, "25:00") {
		t.Errorf("narrow render = %q, want plain digits", narrow)
	}

	wide := renderBigTime("25:00", lipgloss.Color("#FFFFFF"), 100)
	if lines := strings.Count(wide, "\n") + 1; lines != 5 {
		t.Errorf("wide render has %d lines, want 5", lines)
	}
	if !strings.Contains(wide, "█") {
		t.Error("wide render should use block glyphs")
	}
}

func TestShowStatus(t *testing.T) {
	timer := secondsTimer(1500, 300, 900)
	timer.SetActiveTask(&domain.ActiveTaskRef{ID: "t1", Title: "Write report"})
	snap := timer.Snapshot()

	out := ShowStatus(&domain.CurrentState{
		Timer:      &snap,
		TodayStats: domain.DailyStats{WorkSessions: 2, BreaksTaken: 1, FocusTime: 50 * time.Minute},
	})
	for _, want := range []string{"Focus Time", "25:00", "Write report", "Work Sessions: 2", "50m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("ShowStatus() missing %q in %q", want, out)
		}
	}

	out = ShowStatus(&domain.CurrentState{})
	if strings.Contains(out, "Timer") || strings.Contains(out, "Upcoming") {
		t.Errorf("ShowStatus() without timer = %q", out)
	}

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	out = ShowStatus(&domain.CurrentState{UpcomingEvents: []*domain.Event{
		{Title: "Team Standup", Location: "Room A", Attendees: 5, Start: start, End: start.Add(30 * time.Minute)},
	}})
	if !strings.Contains(out, "Upcoming Events") || !strings.Contains(out, "Mon 09:00-09:30 Team Standup @ Room A (5 attendees)") {
		t.Errorf("ShowStatus() with events = %q", out)
	}
}

func TestReloadConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timer.WorkDuration = config.Duration(50 * time.Minute)
	cfg.Timer.Presets = []int{10, 20}
	cfg.Theme.ColorWork = "#123456"

	m := NewModel(Options{
		Timer:      secondsTimer(1500, 300, 900),
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
	})

	m, cmd := update(t, m, key("s"))
	if cmd == nil {
		t.Fatal("reload key should return a command")
	}
	m, _ = update(t, m, cmd())

	if got := m.timer.Config().WorkDuration; got != 50*time.Minute {
		t.Errorf("WorkDuration = %v, want 50m", got)
	}
	if got := m.timer.State().TotalSeconds; got != 1500 {
		t.Errorf("TotalSeconds = %d, want the running session kept at 1500", got)
	}
	if len(m.presets) != 2 || m.presets[0] != 10 {
		t.Errorf("presets = %v, want [10 20]", m.presets)
	}
	if m.theme.ColorWork != "#123456" {
		t.Errorf("ColorWork = %q, want #123456", m.theme.ColorWork)
	}

	m = NewModel(Options{
		Timer:      secondsTimer(1500, 300, 900),
		LoadConfig: func() (*config.Config, error) { return nil, errors.New("unreadable") },
	})
	m, cmd = update(t, m, key("s"))
	m, _ = update(t, m, cmd())
	if m.lastErr == nil {
		t.Error("failed reload should surface an error")
	}
	if got := m.timer.Config().WorkDuration; got != 1500*time.Second {
		t.Errorf("WorkDuration = %v, want unchanged", got)
	}
}

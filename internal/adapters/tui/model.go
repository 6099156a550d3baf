// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg is one second of countdown. Ticks scheduled before the latest
// start/pause/reset carry an older generation and are ignored.
type tickMsg struct {
	gen int
}

// recordedMsg reports the outcome of persisting a completed session.
type recordedMsg struct {
	err error
}

// stateMsg carries refreshed daily totals.
type stateMsg struct {
	state *domain.CurrentState
	err   error
}

// configMsg carries a configuration reloaded from disk.
type configMsg struct {
	cfg *config.Config
	err error
}

// Options wires the model to the rest of the application. Every callback
// is optional.
type Options struct {
	Timer   *domain.SessionTimer
	Theme   *config.ThemeConfig
	Presets []int
	Inline  bool

	// Record persists a completed session. It runs outside the update loop.
	Record func(domain.SessionComplete) error
	// FetchState returns today's totals for the status line.
	FetchState func() (*domain.CurrentState, error)
	// ListTasks feeds the task picker.
	ListTasks func() ([]*domain.Task, error)
	// LoadConfig rereads the settings file for the reload key.
	LoadConfig func() (*config.Config, error)

	Logger *slog.Logger
}

// Model represents the TUI state. It owns the session timer; bubbletea's
// single update loop serializes every access to it.
type Model struct {
	timer    *domain.SessionTimer
	theme    config.ThemeConfig
	presets  []int
	inline   bool
	progress progress.Model
	width    int
	height   int

	// gen is bumped on every command so in-flight ticks from an earlier
	// run are dropped.
	gen int

	today   domain.DailyStats
	picker  *taskPicker
	lastErr error

	record     func(domain.SessionComplete) error
	fetchState func() (*domain.CurrentState, error)
	listTasks  func() ([]*domain.Task, error)
	loadConfig func() (*config.Config, error)
	logger     *slog.Logger
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	timer := opts.Timer
	if timer == nil {
		timer = domain.NewSessionTimer(domain.DefaultTimerConfig())
	}
	presets := opts.Presets
	if len(presets) == 0 {
		presets = config.DefaultConfig().Timer.Presets
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := Model{
		timer:      timer,
		theme:      resolveTheme(opts.Theme),
		presets:    presets,
		inline:     opts.Inline,
		progress:   progress.New(progress.WithDefaultGradient()),
		record:     opts.Record,
		fetchState: opts.FetchState,
		listTasks:  opts.ListTasks,
		loadConfig: opts.LoadConfig,
		logger:     logger,
	}
	if m.inline {
		m.width = getTerminalWidth()
	}
	return m
}

// Timer returns the engine driven by the model.
func (m Model) Timer() *domain.SessionTimer {
	return m.timer
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshState()}
	if m.timer.State().Running {
		cmds = append(cmds, tickCmd(m.gen))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 4
		return m, nil

	case tickMsg:
		return m.handleTick(msg)

	case recordedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			m.logger.Error("failed to record session", "error", msg.err)
		}
		return m, m.refreshState()

	case stateMsg:
		if msg.err != nil {
			m.logger.Warn("failed to refresh stats", "error", msg.err)
		} else if msg.state != nil {
			m.today = msg.state.TodayStats
		}
		return m, nil

	case configMsg:
		return m.applyConfig(msg), nil

	case tasksMsg:
		if m.picker != nil {
			m.picker.setTasks(msg.tasks, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.picker != nil {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}

	newProgress, cmd := m.progress.Update(msg)
	if p, ok := newProgress.(progress.Model); ok {
		m.progress = p
	}
	return m, cmd
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || !m.timer.State().Running {
		return m, nil
	}

	ev := m.timer.Tick()
	if ev == nil {
		return m, tickCmd(m.gen)
	}

	m.gen++
	m.logger.Info("session complete",
		"type", ev.Type,
		"seconds", ev.TotalSeconds,
		"completed_work_sessions", ev.CompletedWorkSessions)
	return m, m.recordCmd(*ev)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastErr = nil

	switch msg.String() {
	case "ctrl+c", "q":
		m.gen++
		return m, tea.Quit

	case " ", "p":
		if m.timer.State().Running {
			m.timer.Pause()
		} else {
			m.timer.Start()
		}

	case "enter":
		if !m.timer.AcknowledgeCompletion() {
			return m, nil
		}

	case "r":
		m.timer.Reset()

	case "x":
		m.timer.Stop()

	case "1", "2", "3", "4":
		i := int(msg.String()[0] - '1')
		if i >= len(m.presets) {
			return m, nil
		}
		m.timer.SetPreset(m.presets[i])

	case "t":
		if m.listTasks == nil {
			return m, nil
		}
		m.picker = newTaskPicker(m.theme, m.width)
		return m, tea.Batch(m.picker.focus(), fetchTasksCmd(m.listTasks))

	case "c":
		m.timer.SetActiveTask(nil)
		return m, nil

	case "s":
		if m.loadConfig == nil {
			return m, nil
		}
		load := m.loadConfig
		return m, func() tea.Msg {
			cfg, err := load()
			return configMsg{cfg: cfg, err: err}
		}

	default:
		return m, nil
	}

	return m, m.restartTicks()
}

// restartTicks invalidates outstanding ticks and, when the timer is
// running, schedules the first tick of the new run.
func (m *Model) restartTicks() tea.Cmd {
	m.gen++
	if m.timer.State().Running {
		return tickCmd(m.gen)
	}
	return nil
}

// applyConfig installs reloaded settings. Durations apply from the next
// session on; the one in progress keeps its length.
func (m Model) applyConfig(msg configMsg) Model {
	err := msg.err
	if err == nil {
		err = m.timer.ApplyConfig(msg.cfg.TimerConfig())
	}
	if err != nil {
		m.lastErr = err
		m.logger.Warn("failed to reload config", "error", err)
		return m
	}
	m.theme = resolveTheme(&msg.cfg.Theme)
	if len(msg.cfg.Timer.Presets) > 0 {
		m.presets = msg.cfg.Timer.Presets
	}
	m.logger.Info("config reloaded")
	return m
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, done, cmd := m.picker.update(msg)
	if !done {
		return m, cmd
	}
	m.picker = nil
	if task != nil {
		m.timer.SetActiveTask(task.Ref())
		m.logger.Info("active task set", "task_id", task.ID)
	}
	return m, nil
}

func (m Model) recordCmd(ev domain.SessionComplete) tea.Cmd {
	if m.record == nil {
		return nil
	}
	record := m.record
	return func() tea.Msg {
		return recordedMsg{err: record(ev)}
	}
}

func (m Model) refreshState() tea.Cmd {
	if m.fetchState == nil {
		return nil
	}
	fetch := m.fetchState
	return func() tea.Msg {
		s, err := fetch()
		return stateMsg{state: s, err: err}
	}
}

// getThemeColor returns the accent color for the current session type.
func (m Model) getThemeColor() lipgloss.Color {
	if m.timer.State().Type.IsBreak() {
		return lipgloss.Color(m.theme.ColorBreak)
	}
	return lipgloss.Color(m.theme.ColorWork)
}

// getTimerColor returns the color for the timer, accounting for pause state.
func (m Model) getTimerColor() lipgloss.Color {
	if !m.timer.State().Running {
		return lipgloss.Color(m.theme.ColorPaused)
	}
	return m.getThemeColor()
}

// View renders the TUI.
func (m Model) View() string {
	if m.inline {
		return m.viewInline()
	}
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	sections = append(sections, titleStyle.Render("🍅 Focus"))

	if task := m.timer.ActiveTask(); task != nil {
		taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
		sections = append(sections, taskStyle.Render("📋 Task: "+task.Title))
	}

	switch {
	case m.picker != nil:
		sections = append(sections, "", m.picker.view())
	case m.timer.Pending() != nil:
		sections = m.viewCompletion(sections)
	default:
		sections = m.viewTimer(sections)
	}

	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
		sections = append(sections, "", errStyle.Render("Error: "+m.lastErr.Error()))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTimer(sections []string) []string {
	snap := m.timer.Snapshot()
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPaused))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	statusText := fmt.Sprintf("%s (%s)", domain.GetSessionTypeLabel(snap.Type), domain.GetStatusLabel(snap))
	sections = append(sections, statusStyle.Render(statusText))

	sections = append(sections, "")
	sections = append(sections, renderBigTime(formatSeconds(snap.RemainingSeconds), m.getTimerColor(), m.width))

	if !snap.Running && snap.RemainingSeconds < snap.TotalSeconds {
		pauseBadge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(m.theme.ColorPaused)).
			Padding(0, 1).
			Render("⏸ PAUSED")
		sections = append(sections, "", pauseBadge)
	}

	sections = append(sections, "")
	pbar := m.progressBar(snap)
	sections = append(sections, pbar.ViewAs(snap.Progress))

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(m.presetLine()))
	sections = append(sections, helpStyle.Render(m.todayLine(snap.CompletedWorkSessions)))

	pauseAction := "[space] start"
	if snap.Running {
		pauseAction = "[space] pause"
	}
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(pauseAction+"  [r]eset  [x] stop  [t]ask  [c]lear task  [s] reload  [q]uit"))
	return sections
}

func (m Model) progressBar(snap domain.TimerSnapshot) progress.Model {
	var pbar progress.Model
	switch {
	case !snap.Running:
		pbar = progress.New(progress.WithSolidFill(m.theme.ColorPaused))
	case snap.Type.IsBreak():
		pbar = progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
	default:
		pbar = progress.New(progress.WithGradient(m.theme.WorkGradientStart, m.theme.WorkGradientEnd))
	}
	pbar.Width = max(m.width-4, 10)
	return pbar
}

func (m Model) presetLine() string {
	line := ""
	for i, p := range m.presets {
		if i >= 4 {
			break
		}
		if line != "" {
			line += "  "
		}
		line += fmt.Sprintf("[%d] %dm", i+1, p)
	}
	return line
}

func (m Model) todayLine(completed int) string {
	return fmt.Sprintf("📊 Today: %d sessions, %s focused · %d this run",
		m.today.WorkSessions, formatDuration(m.today.FocusTime), completed)
}

// tickCmd schedules the next one-second tick for generation gen.
func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// formatSeconds formats whole seconds as MM:SS.
func formatSeconds(s int) string {
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	return formatSeconds(int(d.Seconds()))
}

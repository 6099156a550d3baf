package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
)

// maxPickerRows limits how many matches are listed at once.
const maxPickerRows = 8

// tasksMsg delivers the tasks offered by the picker.
type tasksMsg struct {
	tasks []*domain.Task
	err   error
}

func fetchTasksCmd(list func() ([]*domain.Task, error)) tea.Cmd {
	return func() tea.Msg {
		tasks, err := list()
		return tasksMsg{tasks: tasks, err: err}
	}
}

// pickerTasks adapts a task slice to fuzzy.Source.
type pickerTasks []*domain.Task

func (p pickerTasks) String(i int) string { return p[i].Title }
func (p pickerTasks) Len() int            { return len(p) }

// taskPicker filters open tasks by fuzzy title match.
type taskPicker struct {
	input   textinput.Model
	tasks   pickerTasks
	matches []*domain.Task
	cursor  int
	loaded  bool
	err     error
	theme   config.ThemeConfig
}

func newTaskPicker(theme config.ThemeConfig, width int) *taskPicker {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = 120
	ti.Width = max(min(width-10, 50), 20)
	return &taskPicker{input: ti, theme: theme}
}

func (p *taskPicker) focus() tea.Cmd {
	p.input.Focus()
	return textinput.Blink
}

func (p *taskPicker) setTasks(tasks []*domain.Task, err error) {
	p.loaded = true
	p.err = err
	p.tasks = p.tasks[:0]
	for _, t := range tasks {
		if !t.IsDone() {
			p.tasks = append(p.tasks, t)
		}
	}
	p.filter()
}

func (p *taskPicker) filter() {
	query := strings.TrimSpace(p.input.Value())
	if query == "" {
		p.matches = append([]*domain.Task(nil), p.tasks...)
	} else {
		p.matches = p.matches[:0]
		for _, match := range fuzzy.FindFrom(query, p.tasks) {
			p.matches = append(p.matches, p.tasks[match.Index])
		}
	}
	if p.cursor >= len(p.matches) {
		p.cursor = max(len(p.matches)-1, 0)
	}
}

// update handles a key press. done is true once the picker should close;
// task is the selection, or nil when the picker was dismissed.
func (p *taskPicker) update(msg tea.KeyMsg) (task *domain.Task, done bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return nil, true, nil
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return nil, false, nil
	case "down", "ctrl+n":
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
		return nil, false, nil
	case "enter":
		if len(p.matches) == 0 {
			return nil, false, nil
		}
		return p.matches[p.cursor], true, nil
	}

	p.input, cmd = p.input.Update(msg)
	p.filter()
	return nil, false, cmd
}

func (p *taskPicker) view() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.ColorWork)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.theme.ColorHelp))

	b.WriteString(titleStyle.Render("  Select task") + " ")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	switch {
	case p.err != nil:
		b.WriteString(dimStyle.Render("  Error: "+p.err.Error()) + "\n")
	case !p.loaded:
		b.WriteString(dimStyle.Render("  Loading tasks...") + "\n")
	case len(p.matches) == 0:
		b.WriteString(dimStyle.Render("  No matching tasks. Add one with: focus task add <title>") + "\n")
	}

	start := 0
	if p.cursor >= maxPickerRows {
		start = p.cursor - maxPickerRows + 1
	}
	for i := start; i < len(p.matches) && i < start+maxPickerRows; i++ {
		t := p.matches[i]
		line := fmt.Sprintf("%-40s %s", t.Title, t.Priority)
		if i == p.cursor {
			b.WriteString(activeStyle.Render("  ▸ "+line) + "\n")
		} else {
			b.WriteString(dimStyle.Render("    "+line) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ navigate · enter select · esc back") + "\n")
	return b.String()
}

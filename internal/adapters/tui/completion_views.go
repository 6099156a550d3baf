package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/domain"
)

// completionViewData holds the values shown on the completion screen.
type completionViewData struct {
	title      string
	taskTitle  string
	elapsed    string
	nextLabel  string
	nextLength string
	action     string
	isLong     bool
	untilLong  int
	interval   int
	isWork     bool
}

// buildCompletionViewData derives the completion screen from the pending event.
func buildCompletionViewData(timer *domain.SessionTimer) completionViewData {
	pending := timer.Pending()
	if pending == nil {
		return completionViewData{}
	}

	cfg := timer.Config()
	next := timer.NextSessionType()
	vd := completionViewData{
		title:      domain.CompletionTitle(pending.Type),
		elapsed:    formatSeconds(pending.TotalSeconds),
		nextLabel:  domain.GetSessionTypeLabel(next),
		nextLength: formatSeconds(cfg.DurationFor(next)),
		action:     domain.NextActionLabel(pending.Type),
		isLong:     next == domain.SessionTypeLongBreak,
		interval:   cfg.LongBreakInterval,
		isWork:     pending.Type == domain.SessionTypeWork,
	}
	if pending.Task != nil {
		vd.taskTitle = pending.Task.Title
	}
	if vd.interval > 0 {
		vd.untilLong = vd.interval - pending.CompletedWorkSessions%vd.interval
	}
	return vd
}

func (m Model) viewCompletion(sections []string) []string {
	vd := buildCompletionViewData(m.timer)
	accent := lipgloss.NewStyle().Bold(true).Foreground(m.getThemeColor())
	statusStyle := lipgloss.NewStyle().Foreground(m.getThemeColor())
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	sections = append(sections, "", accent.Render(vd.title))
	if vd.isWork {
		sections = append(sections, statusStyle.Render(vd.elapsed+" of focus"))
		if vd.taskTitle != "" {
			sections = append(sections, helpStyle.Render("You worked on: "+vd.taskTitle))
		}
	} else {
		sections = append(sections, helpStyle.Render("Ready for the next session?"))
	}

	pbar := m.completionBar(vd.isWork)
	sections = append(sections, pbar.ViewAs(1.0))

	next := fmt.Sprintf("Next: %s %s", vd.nextLength, vd.nextLabel)
	if vd.isLong {
		next += " - you earned it!"
	}
	sections = append(sections, "", statusStyle.Render(next))
	if vd.isWork && !vd.isLong && vd.interval > 1 {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("%d of %d sessions until long break",
			vd.interval-vd.untilLong, vd.interval)))
	}

	sections = append(sections, "", helpStyle.Render(m.todayLine(m.timer.State().CompletedWorkSessions)))
	sections = append(sections, "", helpStyle.Render(fmt.Sprintf("[enter] %s  [r]epeat  [q]uit", vd.action)))
	return sections
}

// completionBar uses the gradient of the session that just ended.
func (m Model) completionBar(work bool) progress.Model {
	pbar := progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
	if work {
		pbar = progress.New(progress.WithGradient(m.theme.WorkGradientStart, m.theme.WorkGradientEnd))
	}
	pbar.Width = max(m.width-4, 10)
	return pbar
}

package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/focus-cli/internal/domain"
)

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// viewInline renders a compact three-line timer for use without the alt screen.
func (m Model) viewInline() string {
	accent := lipgloss.NewStyle().Foreground(m.getThemeColor()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	pausedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPaused)).Bold(true)

	if m.picker != nil {
		return m.picker.view() + "\n"
	}

	var b strings.Builder
	if pending := m.timer.Pending(); pending != nil {
		vd := buildCompletionViewData(m.timer)
		b.WriteString(accent.Render("  🍅 " + vd.title))
		b.WriteString(dim.Render(fmt.Sprintf("  Next: %s %s", vd.nextLength, vd.nextLabel)))
		b.WriteString("\n")
		b.WriteString(dim.Render(fmt.Sprintf("  📊 %d sessions, %s today",
			m.today.WorkSessions, formatMinutesCompact(m.today.FocusTime))))
		b.WriteString("\n")
		b.WriteString(dim.Render(fmt.Sprintf("  [enter] %s [r]epeat [q]uit", vd.action)))
		b.WriteString("\n")
		return b.String()
	}

	snap := m.timer.Snapshot()
	typeLabel := domain.GetSessionTypeLabel(snap.Type)
	timeStr := formatSeconds(snap.RemainingSeconds)

	if snap.Running {
		b.WriteString(accent.Render(fmt.Sprintf("  🍅 %s  %s", typeLabel, timeStr)))
	} else {
		b.WriteString(pausedStyle.Render(fmt.Sprintf("  🍅 %s  %s  %s", typeLabel, timeStr, domain.GetStatusLabel(snap))))
	}
	if snap.Task != nil {
		b.WriteString(dim.Render("  📋 " + snap.Task.Title))
	}
	b.WriteString("\n")

	pbar := m.progressBar(snap)
	pbar.Width = max(m.width-16, 20)
	b.WriteString("  " + pbar.ViewAs(snap.Progress))
	b.WriteString(dim.Render(fmt.Sprintf("  %d%%", int(snap.Progress*100))))
	b.WriteString("\n")

	b.WriteString(dim.Render("  [space] start/pause [r]eset [x] stop [1-4] preset [t]ask [q]uit"))
	b.WriteString("\n")
	return b.String()
}

// formatMinutesCompact formats a duration as 1h5m or 25m.
func formatMinutesCompact(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of session statistics",
	Long:  `Display a terminal dashboard with session counts, focus time, streaks and achievements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := domain.ParseStatsPeriod(statsPeriod)
		if err != nil {
			return err
		}

		summary, err := app.stats.Summary(cmd.Context(), period)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), statsData(summary))
		}

		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), summary, app.config.Theme)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Time period: week, month or year")
	rootCmd.AddCommand(statsCmd)
}

func statsData(s *domain.StatsSummary) map[string]interface{} {
	buckets := make([]map[string]interface{}, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		buckets = append(buckets, map[string]interface{}{
			"label":         b.Label,
			"start":         b.Start.Format("2006-01-02"),
			"work_sessions": b.WorkSessions,
			"focus_time":    b.FocusTime.String(),
		})
	}
	achievements := make([]map[string]interface{}, 0, len(s.Achievements))
	for _, a := range s.Achievements {
		achievements = append(achievements, map[string]interface{}{
			"title":       a.Title,
			"description": a.Description,
			"unlocked":    a.Unlocked,
		})
	}
	return map[string]interface{}{
		"period":          string(s.Period),
		"label":           s.Label,
		"work_sessions":   s.WorkSessions,
		"breaks_taken":    s.BreaksTaken,
		"focus_time":      s.FocusTime.String(),
		"average_session": s.AverageSession.String(),
		"current_streak":  s.CurrentStreak,
		"longest_streak":  s.LongestStreak,
		"today": map[string]interface{}{
			"work_sessions": s.Today.WorkSessions,
			"breaks_taken":  s.Today.BreaksTaken,
			"focus_time":    s.Today.FocusTime.String(),
		},
		"buckets":      buckets,
		"achievements": achievements,
	}
}

func renderDashboard(w io.Writer, s *domain.StatsSummary, theme config.ThemeConfig) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorWork))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorPaused))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.WorkGradientEnd))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorWork))

	// Header
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(s.Label))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	fmt.Fprintf(w, "  Total: %s sessions, %s focus, %s breaks\n",
		valueStyle.Render(fmt.Sprintf("%d", s.WorkSessions)),
		valueStyle.Render(formatHours(s.FocusTime.Hours())),
		valueStyle.Render(fmt.Sprintf("%d", s.BreaksTaken)),
	)
	fmt.Fprintf(w, "  Today: %s sessions, %s focus\n",
		valueStyle.Render(fmt.Sprintf("%d", s.Today.WorkSessions)),
		valueStyle.Render(formatHours(s.Today.FocusTime.Hours())),
	)
	fmt.Fprintf(w, "  Streak: %s days (longest %d)\n\n",
		valueStyle.Render(fmt.Sprintf("%d", s.CurrentStreak)),
		s.LongestStreak,
	)

	if s.WorkSessions == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed sessions in this period."))
	} else {
		fmt.Fprintf(w, "  %s  %s\n\n", dimStyle.Render("Average session:"), valueStyle.Render(formatMinutes(s.AverageSession)))
		renderBuckets(w, s.Buckets, dimStyle, barColor)
	}

	renderAchievements(w, s.Achievements, dimStyle, valueStyle)
}

// renderBuckets draws one bar per day (or month for yearly summaries),
// scaled to the busiest bucket.
func renderBuckets(w io.Writer, buckets []domain.StatsBucket, dimStyle, barColor lipgloss.Style) {
	var maxFocus float64
	for _, b := range buckets {
		maxFocus = math.Max(maxFocus, b.FocusTime.Minutes())
	}

	maxBarWidth := 30
	for _, b := range buckets {
		barWidth := 0
		if maxFocus > 0 {
			barWidth = int(math.Round(b.FocusTime.Minutes() / maxFocus * float64(maxBarWidth)))
		}
		if barWidth < 1 && b.WorkSessions > 0 {
			barWidth = 1
		}
		fmt.Fprintf(w, "  %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("%-6s", b.Label)),
			barColor.Render(buildBar(barWidth)),
			dimStyle.Render(formatHours(b.FocusTime.Hours())),
		)
	}
	fmt.Fprintln(w)
}

func renderAchievements(w io.Writer, achievements []domain.Achievement, dimStyle, valueStyle lipgloss.Style) {
	if len(achievements) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Achievements"))
	for _, a := range achievements {
		mark := dimStyle.Render("○")
		title := dimStyle.Render(a.Title)
		if a.Unlocked {
			mark = valueStyle.Render("●")
			title = valueStyle.Render(a.Title)
		}
		fmt.Fprintf(w, "  %s %s  %s\n", mark, title, dimStyle.Render(a.Description))
	}
	fmt.Fprintln(w)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	goalTarget   int
	goalCategory string
	goalDeadline string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Track long-running goals",
	Long:  `Goals count progress toward a numeric target, optionally by a deadline.`,
}

var goalAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := services.AddGoalRequest{
			Title:    strings.Join(args, " "),
			Target:   goalTarget,
			Category: goalCategory,
		}
		if goalDeadline != "" {
			deadline, err := time.ParseInLocation("2006-01-02", goalDeadline, time.Local)
			if err != nil {
				return fmt.Errorf("invalid deadline %q: want YYYY-MM-DD", goalDeadline)
			}
			req.Deadline = &deadline
		}

		goal, err := app.goals.AddGoal(cmd.Context(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), goalData(goal))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🎯 Goal added: %s (ID: %s, target %d)\n", goal.Title, domain.ShortID(goal.ID), goal.Target)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with their progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, err := app.goals.ListGoals(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		out := cmd.OutOrStdout()

		if jsonOutput {
			list := make([]map[string]interface{}, 0, len(goals))
			for _, g := range goals {
				list = append(list, goalData(g))
			}
			return printJSON(out, map[string]interface{}{"goals": list, "count": len(list)})
		}

		if len(goals) == 0 {
			fmt.Fprintln(out, "No goals yet. Add one with: focus goal add <title> --target <n>")
			return nil
		}

		barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorWork))
		doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorBreak))
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))
		now := app.clock.Now()

		for _, g := range goals {
			style := barStyle
			if g.IsAchieved() {
				style = doneStyle
			}
			fmt.Fprintf(out, "%s (ID: %s)\n", g.Title, domain.ShortID(g.ID))
			fmt.Fprintf(out, "  %s %d/%d (%d%%)\n", style.Render(goalBar(g.Percent(), 20)), g.Progress, g.Target, g.Percent())
			var details []string
			if g.Category != "" {
				details = append(details, "Category: "+g.Category)
			}
			if g.Deadline != nil {
				deadline := "Due " + g.Deadline.Format("2006-01-02")
				if g.IsOverdue(now) {
					deadline += " (overdue)"
				}
				details = append(details, deadline)
			}
			if len(details) > 0 {
				fmt.Fprintf(out, "  %s\n", dimStyle.Render(strings.Join(details, " · ")))
			}
		}
		return nil
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress [goal-id] [delta]",
	Short: "Add progress to a goal (negative deltas undo)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid delta %q", args[1])
		}

		goal, err := app.goals.UpdateProgress(cmd.Context(), args[0], delta)
		if err != nil {
			return goalError(args[0], err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), goalData(goal))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d (%d%%)\n", goal.Title, goal.Progress, goal.Target, goal.Percent())
		if goal.IsAchieved() {
			fmt.Fprintln(cmd.OutOrStdout(), "🎉 Goal achieved!")
		}
		return nil
	},
}

var goalRmCmd = &cobra.Command{
	Use:     "rm [goal-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a goal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.goals.DeleteGoal(cmd.Context(), args[0]); err != nil {
			return goalError(args[0], err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"deleted": true, "goal_id": args[0]})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "🗑️  Goal deleted.")
		return nil
	},
}

func init() {
	goalAddCmd.Flags().IntVarP(&goalTarget, "target", "n", 1, "Target count")
	goalAddCmd.Flags().StringVarP(&goalCategory, "category", "c", "", "Category of the goal")
	goalAddCmd.Flags().StringVar(&goalDeadline, "deadline", "", "Deadline as YYYY-MM-DD")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalProgressCmd)
	goalCmd.AddCommand(goalRmCmd)
	rootCmd.AddCommand(goalCmd)
}

func goalError(id string, err error) error {
	if errors.Is(err, domain.ErrGoalNotFound) {
		return fmt.Errorf("goal not found: %s", id)
	}
	return err
}

func goalData(g *domain.Goal) map[string]interface{} {
	data := map[string]interface{}{
		"id":       g.ID,
		"title":    g.Title,
		"category": g.Category,
		"target":   g.Target,
		"progress": g.Progress,
		"percent":  g.Percent(),
		"achieved": g.IsAchieved(),
		"deadline": nil,
	}
	if g.Deadline != nil {
		data["deadline"] = g.Deadline.Format("2006-01-02")
	}
	return data
}

// goalBar draws a fixed-width progress bar for percent in [0, 100].
func goalBar(percent, width int) string {
	filled := percent * width / 100
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

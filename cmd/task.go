package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

// taskCmd groups the task subcommands.
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Create, list, start, complete and delete the tasks that focus sessions are linked to.`,
}

var taskStartCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task as in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := app.tasks.StartTask(cmd.Context(), args[0])
		if err != nil {
			return taskError(args[0], err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskData(task))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "▶️  Started: %s\n", task.Title)
		fmt.Fprintf(cmd.OutOrStdout(), "   Link sessions to it with: focus --task %s\n", domain.ShortID(task.ID))
		return nil
	},
}

var taskFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Fuzzy search task titles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := app.tasks.FindTasks(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to search tasks: %w", err)
		}
		return printTasks(cmd.OutOrStdout(), tasks)
	},
}

func init() {
	taskCmd.AddCommand(addCmd)
	taskCmd.AddCommand(listCmd)
	taskCmd.AddCommand(completeCmd)
	taskCmd.AddCommand(deleteCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskFindCmd)
	rootCmd.AddCommand(taskCmd)
}

// taskError turns a lookup failure into a user-facing message.
func taskError(id string, err error) error {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return fmt.Errorf("task not found: %s", id)
	}
	return err
}

func taskData(task *domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":                task.ID,
		"title":             task.Title,
		"description":       task.Description,
		"status":            string(task.Status),
		"priority":          string(task.Priority),
		"category":          task.Category,
		"estimated_minutes": task.EstimatedMinutes,
		"focus_time":        task.FocusTime().String(),
		"tags":              task.Tags,
		"created_at":        task.CreatedAt.Format("2006-01-02T15:04:05"),
	}
	if task.CompletedAt != nil {
		data["completed_at"] = task.CompletedAt.Format("2006-01-02T15:04:05")
	}
	return data
}

// printTasks renders a task listing as JSON or text.
func printTasks(w io.Writer, tasks []*domain.Task) error {
	if jsonOutput {
		list := make([]map[string]interface{}, 0, len(tasks))
		for _, task := range tasks {
			list = append(list, taskData(task))
		}
		return printJSON(w, map[string]interface{}{
			"tasks": list,
			"count": len(list),
		})
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}

	fmt.Fprintf(w, "📋 Tasks (%d):\n\n", len(tasks))
	for _, task := range tasks {
		fmt.Fprintf(w, "%s %s (ID: %s) [%s]\n", getStatusIcon(task.Status), task.Title, domain.ShortID(task.ID), task.Priority)
		var details []string
		if task.Category != "" {
			details = append(details, "Category: "+task.Category)
		}
		if len(task.Tags) > 0 {
			details = append(details, "Tags: "+strings.Join(task.Tags, ", "))
		}
		if task.FocusSeconds > 0 || task.EstimatedMinutes > 0 {
			focus := "Focus: " + formatMinutes(task.FocusTime())
			if task.EstimatedMinutes > 0 {
				focus += " / " + formatMinutes(time.Duration(task.EstimatedMinutes)*time.Minute)
			}
			details = append(details, focus)
		}
		if len(details) > 0 {
			fmt.Fprintf(w, "   %s\n", strings.Join(details, " · "))
		}
	}
	return nil
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusPending:
		return "⏳"
	case domain.StatusInProgress:
		return "▶️"
	case domain.StatusCompleted:
		return "✅"
	case domain.StatusCancelled:
		return "❌"
	default:
		return "❓"
	}
}

// formatMinutes renders a duration as "1h 5m" or "25m".
func formatMinutes(d time.Duration) string {
	total := int(d.Round(time.Minute).Minutes())
	h, m := total/60, total%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	listFilter   string
	listCategory string
)

// listCmd represents the task list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List tasks, optionally filtered by status and category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := domain.ParseTaskFilter(listFilter)
		if err != nil {
			return err
		}

		tasks, err := app.tasks.ListTasks(cmd.Context(), services.ListTasksRequest{
			Filter:   filter,
			Category: listCategory,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		return printTasks(cmd.OutOrStdout(), tasks)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "pending", "Which tasks to list: all, pending or completed")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only list tasks in this category")
}

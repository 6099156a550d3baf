package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/mcp"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server owns a session timer and exposes tools to control it, manage
tasks and read the session log. It communicates over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return errors.New("the MCP server is disabled (set mcp.enabled to true)")
		}

		ctx, cancel := setupSignalHandler(cmd.Context())
		defer cancel()

		timer := domain.NewSessionTimer(app.config.TimerConfig())
		runner := services.NewTimerRunner(timer, app.clock, app.logger)
		app.state.SetTimer(runner)

		go app.recorder.Consume(ctx, runner.Events())
		go func() {
			_ = runner.Run(ctx)
		}()

		app.logger.Info("mcp server starting")
		server := mcp.NewServer(app.state, runner)
		err := server.Start(ctx)
		cancel()
		<-runner.Done()
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

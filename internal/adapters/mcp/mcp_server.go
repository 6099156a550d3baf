// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const (
	serverName    = "focus"
	serverVersion = "1.0.0"

	defaultRecentLimit = 10
	dateLayout         = "2006-01-02"
)

// errNoTimer is reported to clients when no timer runs in this process.
var errNoTimer = errors.New("no timer is running in this process")

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	timer         ports.TimerControl
	running       atomic.Bool

	stdin  io.Reader
	stdout io.Writer
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// NewServer creates a new MCP server instance. timer may be nil, in which
// case the timer tools report an error and only stored data is served.
func NewServer(stateProvider ports.MCPStateProvider, timer ports.TimerControl) *Server {
	s := &Server{
		stateProvider: stateProvider,
		timer:         timer,
		stdin:         os.Stdin,
		stdout:        os.Stdout,
	}

	s.server = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_state",
			mcp.WithDescription("Get the session timer state and today's totals"),
		),
		s.handleGetState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"timer_control",
			mcp.WithDescription("Start, pause, reset or stop the timer, or acknowledge a finished session"),
			mcp.WithString(
				"action",
				mcp.Required(),
				mcp.Description("The command to run"),
				mcp.Enum(ports.TimerCommands...),
			),
		),
		s.handleTimerControl,
	)

	s.server.AddTool(
		mcp.NewTool(
			"set_preset",
			mcp.WithDescription("Replace the length of the current session and pause it"),
			mcp.WithNumber(
				"minutes",
				mcp.Required(),
				mcp.Description("Session length in whole minutes, 1 to 1440"),
			),
		),
		s.handleSetPreset,
	)

	s.server.AddTool(
		mcp.NewTool(
			"set_active_task",
			mcp.WithDescription("Link future completed sessions to a task. An empty task_id clears the link"),
			mcp.WithString(
				"task_id",
				mcp.Description("Task ID or unique ID prefix"),
			),
		),
		s.handleSetActiveTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List tasks, optionally filtered by status and category"),
			mcp.WithString(
				"filter",
				mcp.Description("Which tasks to list"),
				mcp.Enum(string(domain.FilterAll), string(domain.FilterPending), string(domain.FilterCompleted)),
			),
			mcp.WithString(
				"category",
				mcp.Description("Only list tasks in this category"),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"add_task",
			mcp.WithDescription("Create a new task"),
			mcp.WithString("title", mcp.Required(), mcp.Description("The task title")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString(
				"priority",
				mcp.Description("Task priority"),
				mcp.Enum(string(domain.PriorityLow), string(domain.PriorityMedium), string(domain.PriorityHigh)),
			),
			mcp.WithString("category", mcp.Description("Optional category")),
			mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		),
		s.handleAddTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"complete_task",
			mcp.WithDescription("Mark a task as completed"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID or unique ID prefix")),
		),
		s.handleCompleteTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_task_history",
			mcp.WithDescription("Get the completed sessions logged for a task"),
			mcp.WithString("task_id", mcp.Required(), mcp.Description("Task ID or unique ID prefix")),
		),
		s.handleGetTaskHistory,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_recent_sessions",
			mcp.WithDescription("Get sessions completed during the last week, newest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum number of sessions (default 10)")),
		),
		s.handleGetRecentSessions,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_stats",
			mcp.WithDescription("Summarize focus time, streaks and achievements for a period"),
			mcp.WithString(
				"period",
				mcp.Description("The period to summarize"),
				mcp.Enum(string(domain.PeriodWeek), string(domain.PeriodMonth), string(domain.PeriodYear)),
			),
		),
		s.handleGetStats,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_events",
			mcp.WithDescription("List the calendar events of a day"),
			mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD (default today)")),
		),
		s.handleListEvents,
	)
}

// Start serves MCP requests over stdio until ctx is done or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("mcp server already running")
	}
	defer s.running.Store(false)

	err := server.NewStdioServer(s.server).Listen(ctx, s.stdin, s.stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve mcp: %w", err)
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

func snapshotData(snap domain.TimerSnapshot) map[string]interface{} {
	data := map[string]interface{}{
		"type":                    string(snap.Type),
		"label":                   domain.GetSessionTypeLabel(snap.Type),
		"status":                  domain.GetStatusLabel(snap),
		"total_seconds":           snap.TotalSeconds,
		"remaining_seconds":       snap.RemainingSeconds,
		"running":                 snap.Running,
		"progress":                snap.Progress,
		"completed_work_sessions": snap.CompletedWorkSessions,
		"task":                    nil,
		"pending":                 nil,
	}
	if snap.Task != nil {
		data["task"] = map[string]interface{}{"id": snap.Task.ID, "title": snap.Task.Title}
	}
	if snap.Pending != nil {
		data["pending"] = map[string]interface{}{
			"type":          string(snap.Pending.Type),
			"total_seconds": snap.Pending.TotalSeconds,
			"next_action":   domain.NextActionLabel(snap.Pending.Type),
		}
	}
	return data
}

func taskData(task *domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":            task.ID,
		"title":         task.Title,
		"description":   task.Description,
		"status":        string(task.Status),
		"priority":      string(task.Priority),
		"category":      task.Category,
		"tags":          task.Tags,
		"focus_seconds": task.FocusSeconds,
		"created_at":    formatTime(task.CreatedAt),
	}
	if task.CompletedAt != nil {
		data["completed_at"] = formatTime(*task.CompletedAt)
	}
	return data
}

func eventData(e *domain.Event) map[string]interface{} {
	return map[string]interface{}{
		"id":        e.ID,
		"title":     e.Title,
		"location":  e.Location,
		"attendees": e.Attendees,
		"start":     formatTime(e.Start),
		"end":       formatTime(e.End),
		"duration":  e.Duration().String(),
	}
}

func eventsData(events []*domain.Event) []map[string]interface{} {
	data := make([]map[string]interface{}, 0, len(events))
	for _, e := range events {
		data = append(data, eventData(e))
	}
	return data
}

func recordData(r *domain.SessionRecord) map[string]interface{} {
	data := map[string]interface{}{
		"id":           r.ID,
		"type":         string(r.Type),
		"duration":     r.Duration.String(),
		"completed_at": formatTime(r.CompletedAt),
		"task_title":   r.TaskTitle,
		"git_branch":   r.GitBranch,
		"git_commit":   r.GitCommit,
	}
	if r.TaskID != nil {
		data["task_id"] = *r.TaskID
	}
	return data
}

func recordsData(records []*domain.SessionRecord) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		out = append(out, recordData(r))
	}
	return out
}

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}

	result := map[string]interface{}{
		"timer": nil,
		"today_stats": map[string]interface{}{
			"work_sessions": state.TodayStats.WorkSessions,
			"breaks_taken":  state.TodayStats.BreaksTaken,
			"focus_time":    state.TodayStats.FocusTime.String(),
		},
		"upcoming_events": eventsData(state.UpcomingEvents),
	}
	if state.Timer != nil {
		result["timer"] = snapshotData(*state.Timer)
	}
	return jsonResult(result)
}

// handleTimerControl handles the timer_control tool.
func (s *Server) handleTimerControl(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.timer == nil {
		return mcp.NewToolResultError(errNoTimer.Error()), nil
	}
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cmd, err := ports.ParseTimerCommand(action)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := s.timer.Apply(ctx, cmd)
	if errors.Is(err, domain.ErrNothingToConfirm) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", cmd, err)
	}
	return jsonResult(snapshotData(snap))
}

// handleSetPreset handles the set_preset tool.
func (s *Server) handleSetPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.timer == nil {
		return mcp.NewToolResultError(errNoTimer.Error()), nil
	}
	raw := request.GetFloat("minutes", 0)
	if raw != math.Trunc(raw) {
		return mcp.NewToolResultError(fmt.Sprintf("minutes must be a whole number, got %v", raw)), nil
	}
	if raw <= 0 || raw > domain.MaxPresetMinutes {
		return mcp.NewToolResultError(fmt.Sprintf("minutes must be between 1 and %d", domain.MaxPresetMinutes)), nil
	}
	minutes := int(raw)

	snap, err := s.timer.SetPreset(ctx, minutes)
	if err != nil {
		return nil, fmt.Errorf("failed to set preset: %w", err)
	}
	return jsonResult(snapshotData(snap))
}

// handleSetActiveTask handles the set_active_task tool.
func (s *Server) handleSetActiveTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.timer == nil {
		return mcp.NewToolResultError(errNoTimer.Error()), nil
	}

	var ref *domain.ActiveTaskRef
	if id := strings.TrimSpace(request.GetString("task_id", "")); id != "" {
		task, err := s.stateProvider.GetTask(ctx, id)
		if errors.Is(err, domain.ErrTaskNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("task %q not found", id)), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find task: %w", err)
		}
		ref = task.Ref()
	}

	snap, err := s.timer.SetActiveTask(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to set active task: %w", err)
	}
	return jsonResult(snapshotData(snap))
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := domain.ParseTaskFilter(request.GetString("filter", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tasks, err := s.stateProvider.ListTasks(ctx, ports.TaskQuery{
		Filter:   filter,
		Category: request.GetString("category", ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskData(task))
	}
	return jsonResult(map[string]interface{}{
		"tasks": out,
		"count": len(out),
	})
}

// handleAddTask handles the add_task tool.
func (s *Server) handleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var tags []string
	for _, tag := range strings.Split(request.GetString("tags", ""), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	task, err := s.stateProvider.CreateTask(ctx, ports.TaskDraft{
		Title:       title,
		Description: request.GetString("description", ""),
		Priority:    request.GetString("priority", ""),
		Category:    request.GetString("category", ""),
		Tags:        tags,
	})
	if errors.Is(err, domain.ErrEmptyTaskTitle) || errors.Is(err, domain.ErrInvalidPriority) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return jsonResult(taskData(task))
}

// handleCompleteTask handles the complete_task tool.
func (s *Server) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := s.stateProvider.CompleteTask(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("task %q not found", id)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	return jsonResult(taskData(task))
}

// handleGetTaskHistory handles the get_task_history tool.
func (s *Server) handleGetTaskHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := s.stateProvider.GetTask(ctx, id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("task %q not found", id)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	records, err := s.stateProvider.GetTaskHistory(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task history: %w", err)
	}

	var focus time.Duration
	for _, r := range records {
		if r.IsWork() {
			focus += r.Duration
		}
	}

	return jsonResult(map[string]interface{}{
		"task":       taskData(task),
		"sessions":   recordsData(records),
		"count":      len(records),
		"focus_time": focus.String(),
	})
}

// handleGetRecentSessions handles the get_recent_sessions tool.
func (s *Server) handleGetRecentSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", defaultRecentLimit))
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	records, err := s.stateProvider.GetRecentSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent sessions: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"sessions": recordsData(records),
		"count":    len(records),
	})
}

// handleGetStats handles the get_stats tool.
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period, err := domain.ParseStatsPeriod(request.GetString("period", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := s.stateProvider.GetStats(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	buckets := make([]map[string]interface{}, 0, len(summary.Buckets))
	for _, b := range summary.Buckets {
		buckets = append(buckets, map[string]interface{}{
			"label":         b.Label,
			"work_sessions": b.WorkSessions,
			"focus_time":    b.FocusTime.String(),
		})
	}
	var achievements []string
	for _, a := range summary.Achievements {
		if a.Unlocked {
			achievements = append(achievements, a.Title)
		}
	}

	return jsonResult(map[string]interface{}{
		"period":          string(summary.Period),
		"label":           summary.Label,
		"work_sessions":   summary.WorkSessions,
		"breaks_taken":    summary.BreaksTaken,
		"focus_time":      summary.FocusTime.String(),
		"average_session": summary.AverageSession.String(),
		"current_streak":  summary.CurrentStreak,
		"longest_streak":  summary.LongestStreak,
		"buckets":         buckets,
		"achievements":    achievements,
	})
}

// handleListEvents handles the list_events tool.
func (s *Server) handleListEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := time.Now()
	if raw := strings.TrimSpace(request.GetString("date", "")); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date %q: want YYYY-MM-DD", raw)), nil
		}
		day = parsed
	}

	events, err := s.stateProvider.ListEvents(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return jsonResult(map[string]interface{}{
		"date":   day.Format(dateLayout),
		"events": eventsData(events),
		"count":  len(events),
	})
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/xvierd/focus-cli/internal/adapters/clock"
	"github.com/xvierd/focus-cli/internal/adapters/git"
	"github.com/xvierd/focus-cli/internal/adapters/notification"
	"github.com/xvierd/focus-cli/internal/adapters/storage"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/logging"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	configPath string
	logger     *slog.Logger
	logCloser  io.Closer
	clock      ports.Clock
	storage    ports.Storage
	tasks      *services.TaskService
	goals      *services.GoalService
	events     *services.EventService
	stats      *services.StatsService
	state      *services.StateService
	recorder   *services.SessionRecorder
	git        ports.GitDetector
	notifier   *notification.Notifier
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error

	app.configPath = configPath
	if app.configPath == "" {
		app.configPath, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}
	app.config, err = config.LoadFrom(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(app.config.Storage.DataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	app.logger, app.logCloser, err = logging.New(app.config)
	if err != nil {
		return err
	}

	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.logger.Debug("storage opened", "path", path)

	workingDir, _ := os.Getwd()

	app.clock = clock.System{}
	app.git = git.NewDetector(workingDir)
	app.notifier = notification.New(app.config.Notifications)

	app.tasks = services.NewTaskService(app.storage)
	app.goals = services.NewGoalService(app.storage)
	app.events = services.NewEventService(app.storage, app.clock)
	app.stats = services.NewStatsService(app.storage, app.clock)
	app.state = services.NewStateService(app.storage, app.clock)

	app.recorder = services.NewSessionRecorder(app.storage, app.clock, app.logger)
	app.recorder.SetGitDetector(app.git, workingDir)
	app.recorder.SetNotifier(app.notifier)

	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
	return err
}

// setupSignalHandler returns a context that is cancelled on interrupt signals.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

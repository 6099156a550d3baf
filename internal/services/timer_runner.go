package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const eventBuffer = 16

// TimerRunner owns a SessionTimer and drives it from a single goroutine.
// Commands and ticks are serialized onto that goroutine; the ticker exists
// only while the timer runs and is released in the same loop iteration
// that stops it.
type TimerRunner struct {
	timer  *domain.SessionTimer
	clock  ports.Clock
	logger *slog.Logger

	cmds   chan runnerCmd
	events chan domain.SessionComplete
	done   chan struct{}
	onTick func(domain.TimerSnapshot)
}

var _ ports.TimerControl = (*TimerRunner)(nil)

type runnerCmd struct {
	fn    func(*domain.SessionTimer)
	reply chan domain.TimerSnapshot
}

// NewTimerRunner creates a runner for timer. Call Run to start it.
func NewTimerRunner(timer *domain.SessionTimer, clock ports.Clock, logger *slog.Logger) *TimerRunner {
	return &TimerRunner{
		timer:  timer,
		clock:  clock,
		logger: logger,
		cmds:   make(chan runnerCmd),
		events: make(chan domain.SessionComplete, eventBuffer),
		done:   make(chan struct{}),
	}
}

// OnTick registers a callback invoked on the runner goroutine after every
// tick. It must be set before Run.
func (r *TimerRunner) OnTick(fn func(domain.TimerSnapshot)) {
	r.onTick = fn
}

// Events delivers completion events. The channel is closed when Run returns.
func (r *TimerRunner) Events() <-chan domain.SessionComplete {
	return r.events
}

// Done is closed when Run returns.
func (r *TimerRunner) Done() <-chan struct{} {
	return r.done
}

// Run processes commands and ticks until ctx is cancelled.
func (r *TimerRunner) Run(ctx context.Context) error {
	defer close(r.done)
	defer close(r.events)

	var ticker ports.Ticker
	release := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
		}
	}
	defer release()

	syncTicker := func() {
		running := r.timer.State().Running
		switch {
		case running && ticker == nil:
			ticker = r.clock.NewTicker(time.Second)
		case !running:
			release()
		}
	}

	r.logger.Debug("timer runner started")
	syncTicker()

	for {
		var tickC <-chan time.Time
		if ticker != nil {
			tickC = ticker.C()
		}

		select {
		case <-ctx.Done():
			r.logger.Debug("timer runner stopped")
			return nil

		case c := <-r.cmds:
			c.fn(r.timer)
			syncTicker()
			c.reply <- r.timer.Snapshot()

		case <-tickC:
			if ev := r.timer.Tick(); ev != nil {
				r.emit(*ev)
			}
			syncTicker()
			if r.onTick != nil {
				r.onTick(r.timer.Snapshot())
			}
		}
	}
}

func (r *TimerRunner) emit(ev domain.SessionComplete) {
	r.logger.Info("session complete",
		"type", ev.Type,
		"seconds", ev.TotalSeconds,
		"work_sessions", ev.CompletedWorkSessions,
	)
	select {
	case r.events <- ev:
	default:
		r.logger.Warn("completion event dropped, consumer too slow", "type", ev.Type)
	}
}

// Do runs fn against the timer on the runner goroutine and returns the
// resulting snapshot.
func (r *TimerRunner) Do(ctx context.Context, fn func(*domain.SessionTimer)) (domain.TimerSnapshot, error) {
	reply := make(chan domain.TimerSnapshot, 1)

	select {
	case r.cmds <- runnerCmd{fn: fn, reply: reply}:
	case <-r.done:
		return domain.TimerSnapshot{}, domain.ErrRunnerClosed
	case <-ctx.Done():
		return domain.TimerSnapshot{}, ctx.Err()
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return domain.TimerSnapshot{}, ctx.Err()
	}
}

// Apply implements ports.TimerControl.
func (r *TimerRunner) Apply(ctx context.Context, cmd ports.TimerCommand) (domain.TimerSnapshot, error) {
	switch cmd {
	case ports.CmdStart:
		return r.Do(ctx, (*domain.SessionTimer).Start)
	case ports.CmdPause:
		return r.Do(ctx, (*domain.SessionTimer).Pause)
	case ports.CmdReset:
		return r.Do(ctx, (*domain.SessionTimer).Reset)
	case ports.CmdStop:
		return r.Do(ctx, (*domain.SessionTimer).Stop)
	case ports.CmdAcknowledge:
		var ok bool
		snap, err := r.Do(ctx, func(t *domain.SessionTimer) { ok = t.AcknowledgeCompletion() })
		if err == nil && !ok {
			err = domain.ErrNothingToConfirm
		}
		return snap, err
	default:
		_, err := ports.ParseTimerCommand(string(cmd))
		return domain.TimerSnapshot{}, err
	}
}

// SetPreset implements ports.TimerControl.
func (r *TimerRunner) SetPreset(ctx context.Context, minutes int) (domain.TimerSnapshot, error) {
	return r.Do(ctx, func(t *domain.SessionTimer) { t.SetPreset(minutes) })
}

// SetActiveTask implements ports.TimerControl.
func (r *TimerRunner) SetActiveTask(ctx context.Context, ref *domain.ActiveTaskRef) (domain.TimerSnapshot, error) {
	return r.Do(ctx, func(t *domain.SessionTimer) { t.SetActiveTask(ref) })
}

// Snapshot implements ports.TimerControl.
func (r *TimerRunner) Snapshot(ctx context.Context) (domain.TimerSnapshot, error) {
	return r.Do(ctx, func(*domain.SessionTimer) {})
}

// ApplyConfig replaces the timer configuration for future transitions.
func (r *TimerRunner) ApplyConfig(ctx context.Context, cfg domain.TimerConfig) error {
	var applyErr error
	if _, err := r.Do(ctx, func(t *domain.SessionTimer) { applyErr = t.ApplyConfig(cfg) }); err != nil {
		return err
	}
	return applyErr
}

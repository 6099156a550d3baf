package domain

import "fmt"

// SessionState is the mutable run state of the timer.
type SessionState struct {
	Type                  SessionType
	TotalSeconds          int
	RemainingSeconds      int
	Running               bool
	CompletedWorkSessions int
}

// TimerSnapshot is a read-only view of the timer for presentation layers.
type TimerSnapshot struct {
	SessionState
	Progress float64
	Task     *ActiveTaskRef
	Pending  *SessionComplete
}

// SessionTimer is the countdown engine. It owns the session state and
// decides when sessions complete and what comes next.
//
// SessionTimer is not safe for concurrent use; callers serialize ticks and
// commands onto a single goroutine or event loop.
type SessionTimer struct {
	config  TimerConfig
	state   SessionState
	task    *ActiveTaskRef
	pending *SessionComplete
}

// NewSessionTimer creates a timer holding a fresh, paused work session.
// An invalid config falls back to DefaultTimerConfig.
func NewSessionTimer(config TimerConfig) *SessionTimer {
	if config.Validate() != nil {
		config = DefaultTimerConfig()
	}
	total := config.DurationFor(SessionTypeWork)
	return &SessionTimer{
		config: config,
		state: SessionState{
			Type:             SessionTypeWork,
			TotalSeconds:     total,
			RemainingSeconds: total,
		},
	}
}

// State returns a copy of the current run state.
func (t *SessionTimer) State() SessionState {
	return t.state
}

// Config returns the configuration used for future transitions.
func (t *SessionTimer) Config() TimerConfig {
	return t.config
}

// Snapshot returns the state together with progress, task and pending completion.
func (t *SessionTimer) Snapshot() TimerSnapshot {
	snap := TimerSnapshot{
		SessionState: t.state,
		Progress:     t.Progress(),
	}
	if t.task != nil {
		task := *t.task
		snap.Task = &task
	}
	if t.pending != nil {
		pending := *t.pending
		snap.Pending = &pending
	}
	return snap
}

// Start runs the countdown. A finished session is first transitioned to
// the next one so a zero-length session never runs.
func (t *SessionTimer) Start() {
	if t.state.RemainingSeconds == 0 {
		if !t.AcknowledgeCompletion() {
			return
		}
	}
	t.state.Running = true
}

// Pause stops the countdown without rewinding it.
func (t *SessionTimer) Pause() {
	t.state.Running = false
}

// Reset rewinds the current session to its full length and pauses it.
// Session type and the work session counter are kept; an unacknowledged
// completion is discarded so the session can be repeated.
func (t *SessionTimer) Reset() {
	t.state.RemainingSeconds = t.state.TotalSeconds
	t.state.Running = false
	t.pending = nil
}

// Stop ends the current run. It behaves like Reset.
func (t *SessionTimer) Stop() {
	t.Reset()
}

// MaxPresetMinutes is the longest session SetPreset accepts.
const MaxPresetMinutes = 24 * 60

// ValidatePreset reports whether minutes is a length SetPreset accepts.
func ValidatePreset(minutes int) error {
	if minutes <= 0 || minutes > MaxPresetMinutes {
		return fmt.Errorf("%w: got %d, want 1 to %d minutes", ErrInvalidPreset, minutes, MaxPresetMinutes)
	}
	return nil
}

// SetPreset replaces the length of the current session with the given
// number of minutes without touching the configuration. Values outside
// 1..MaxPresetMinutes are ignored.
func (t *SessionTimer) SetPreset(minutes int) {
	if ValidatePreset(minutes) != nil {
		return
	}
	t.state.TotalSeconds = minutes * 60
	t.state.RemainingSeconds = t.state.TotalSeconds
	t.state.Running = false
	t.pending = nil
}

// Tick advances the countdown by one second. It returns the completion
// event when the session ends on this tick and nil otherwise.
func (t *SessionTimer) Tick() *SessionComplete {
	if !t.state.Running {
		return nil
	}
	if t.state.RemainingSeconds > 1 {
		t.state.RemainingSeconds--
		return nil
	}

	t.state.RemainingSeconds = 0
	t.state.Running = false
	if t.state.Type == SessionTypeWork {
		t.state.CompletedWorkSessions++
	}

	event := &SessionComplete{
		Type:                  t.state.Type,
		TotalSeconds:          t.state.TotalSeconds,
		CompletedWorkSessions: t.state.CompletedWorkSessions,
	}
	if t.task != nil {
		task := *t.task
		event.Task = &task
	}
	t.pending = event

	result := *event
	return &result
}

// Pending returns the completion awaiting acknowledgement, if any.
func (t *SessionTimer) Pending() *SessionComplete {
	if t.pending == nil {
		return nil
	}
	pending := *t.pending
	return &pending
}

// AcknowledgeCompletion consumes the pending completion and loads the next
// session. It returns false when there is nothing to acknowledge.
func (t *SessionTimer) AcknowledgeCompletion() bool {
	if t.pending == nil {
		return false
	}
	next := t.nextAfter(t.pending.Type)
	t.pending = nil

	t.state.Type = next
	t.state.TotalSeconds = t.config.DurationFor(next)
	t.state.RemainingSeconds = t.state.TotalSeconds
	t.state.Running = t.config.AutoStart(next)
	return true
}

// NextSessionType returns the session that acknowledging the pending
// completion would load.
func (t *SessionTimer) NextSessionType() SessionType {
	return t.nextAfter(t.state.Type)
}

func (t *SessionTimer) nextAfter(previous SessionType) SessionType {
	if previous != SessionTypeWork {
		return SessionTypeWork
	}
	if t.state.CompletedWorkSessions%t.config.LongBreakInterval == 0 {
		return SessionTypeLongBreak
	}
	return SessionTypeShortBreak
}

// Progress returns the elapsed fraction of the current session in [0, 1].
func (t *SessionTimer) Progress() float64 {
	if t.state.TotalSeconds <= 0 {
		return 0
	}
	p := float64(t.state.TotalSeconds-t.state.RemainingSeconds) / float64(t.state.TotalSeconds)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// SetActiveTask associates future completions with a task. Nil clears it.
func (t *SessionTimer) SetActiveTask(ref *ActiveTaskRef) {
	if ref == nil {
		t.task = nil
		return
	}
	task := *ref
	t.task = &task
}

// ActiveTask returns the associated task reference, if any.
func (t *SessionTimer) ActiveTask() *ActiveTaskRef {
	if t.task == nil {
		return nil
	}
	task := *t.task
	return &task
}

// ApplyConfig replaces the configuration. The session in progress keeps
// its length; the new values take effect at the next transition.
func (t *SessionTimer) ApplyConfig(config TimerConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	t.config = config
	return nil
}

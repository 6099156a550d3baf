package domain

import "time"

// SessionRecord is the log entry written when a session completes.
type SessionRecord struct {
	ID          string
	Type        SessionType
	Duration    time.Duration
	TaskID      *string
	TaskTitle   string
	CompletedAt time.Time
	GitBranch   string
	GitCommit   string
}

// NewSessionRecord builds a record from a completion event.
func NewSessionRecord(event SessionComplete, completedAt time.Time) *SessionRecord {
	record := &SessionRecord{
		ID:          generateID(),
		Type:        event.Type,
		Duration:    event.Duration(),
		CompletedAt: completedAt,
	}
	if event.Task != nil {
		id := event.Task.ID
		record.TaskID = &id
		record.TaskTitle = event.Task.Title
	}
	return record
}

// SetGitContext stores git information for the record.
func (r *SessionRecord) SetGitContext(branch, commit string) {
	r.GitBranch = branch
	r.GitCommit = commit
}

// IsWork returns true if the record is a work session.
func (r *SessionRecord) IsWork() bool {
	return r.Type == SessionTypeWork
}

// Package audit records one structured event per command invocation.
package audit

import (
	"context"
	"time"
)

// Status represents the outcome of a session.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Event represents a single audited session run.
type Event struct {
	EventID string `json:"event_id"`

	// Session details
	Session string   `json:"session"`
	Args    []string `json:"args,omitempty"`

	// Result
	Status       Status `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Timing
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
	DurationMs  int64         `json:"duration_ms"`
	Duration    time.Duration `json:"-"`

	// Git context
	Git GitContext `json:"git"`

	// Process context
	RunID   string `json:"run_id,omitempty"`
	Project string `json:"project,omitempty"`
}

// GitContext holds repository state at the start of a session.
type GitContext struct {
	Branch      string `json:"branch,omitempty"`
	CommitShort string `json:"commit_short,omitempty"`
	IsDirty     bool   `json:"is_dirty"`
}

// GitSource is the part of the git inspector the audit log reads.
type GitSource interface {
	CurrentBranch(ctx context.Context) (string, error)
	ShortHead(ctx context.Context) (string, error)
	HasChanges(ctx context.Context) (bool, error)
}

// CaptureGitContext snapshots the repository. Fields that cannot be read,
// for example outside a repository, are left empty.
func CaptureGitContext(ctx context.Context, src GitSource) GitContext {
	var g GitContext
	if src == nil {
		return g
	}
	if branch, err := src.CurrentBranch(ctx); err == nil {
		g.Branch = branch
	}
	if head, err := src.ShortHead(ctx); err == nil {
		g.CommitShort = head
	}
	if dirty, err := src.HasChanges(ctx); err == nil {
		g.IsDirty = dirty
	}
	return g
}

// Complete finalizes the event with timing and status.
func (e *Event) Complete(at time.Time, status Status, err error) {
	e.CompletedAt = at
	e.Duration = e.CompletedAt.Sub(e.StartedAt)
	e.DurationMs = e.Duration.Milliseconds()
	e.Status = status

	if err != nil {
		e.ErrorMessage = err.Error()
		if status == "" {
			e.Status = StatusError
		}
	}
}

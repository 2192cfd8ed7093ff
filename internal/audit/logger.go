package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger appends audit events as JSON lines. A Logger without an output
// discards everything.
type Logger struct {
	mu      sync.Mutex
	runID   string
	project string
	output  io.Writer
	closer  io.Closer
	git     GitSource
	now     func() time.Time
}

// LoggerOption configures the logger.
type LoggerOption func(*Logger)

// WithRunID sets the id shared by every event of this process.
func WithRunID(id string) LoggerOption {
	return func(l *Logger) {
		l.runID = id
	}
}

// WithProject sets the project root recorded with each event.
func WithProject(root string) LoggerOption {
	return func(l *Logger) {
		l.project = root
	}
}

// WithOutput sets the event destination.
func WithOutput(w io.Writer) LoggerOption {
	return func(l *Logger) {
		l.output = w
	}
}

// WithGit sets where the git context is read from.
func WithGit(src GitSource) LoggerOption {
	return func(l *Logger) {
		l.git = src
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) LoggerOption {
	return func(l *Logger) {
		l.now = now
	}
}

// NewLogger creates a new audit logger.
func NewLogger(opts ...LoggerOption) *Logger {
	l := &Logger{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Disabled returns a logger that records nothing.
func Disabled() *Logger {
	return NewLogger()
}

// Open creates a logger appending to path, creating the file and its
// parent directories as needed.
func Open(path string, opts ...LoggerOption) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	l := NewLogger(append(opts, WithOutput(f))...)
	l.closer = f
	return l, nil
}

// Enabled reports whether events are written anywhere.
func (l *Logger) Enabled() bool {
	return l.output != nil
}

// Start begins tracking a session run.
func (l *Logger) Start(ctx context.Context, session string, args []string) *Event {
	event := &Event{
		EventID:   uuid.New().String(),
		Session:   session,
		Args:      args,
		StartedAt: l.now(),
		RunID:     l.runID,
		Project:   l.project,
	}
	if l.Enabled() {
		event.Git = CaptureGitContext(ctx, l.git)
	}
	return event
}

// Log writes a completed event to the output.
func (l *Logger) Log(event *Event) error {
	if !l.Enabled() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.CompletedAt.IsZero() {
		event.Complete(l.now(), event.Status, nil)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(l.output, "%s\n", data)
	return err
}

// LogSuccess logs a successful run.
func (l *Logger) LogSuccess(event *Event) error {
	event.Complete(l.now(), StatusSuccess, nil)
	return l.Log(event)
}

// LogError logs a failed run.
func (l *Logger) LogError(event *Event, err error) error {
	event.Complete(l.now(), StatusError, err)
	return l.Log(event)
}

// Finish logs event as a success or failure depending on err.
func (l *Logger) Finish(event *Event, err error) error {
	if err != nil {
		return l.LogError(event, err)
	}
	return l.LogSuccess(event)
}

// Close releases the audit file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

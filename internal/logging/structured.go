// Package logging provides structured logging for devtask sessions.
//
// Text output mirrors a task runner's console ("devtask > message");
// JSON output emits one event per line for machine consumption.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/oklog/ulid/v2"
)

// Prefix starts every text log line.
const Prefix = "devtask >"

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a config string to a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelRank[l]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Event represents a structured log event
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     Level                  `json:"level"`
	Component string                 `json:"component"`
	Session   string                 `json:"session"`
	Event     string                 `json:"event"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger provides structured logging
type Logger struct {
	mu        *sync.Mutex
	component string
	session   string
	level     Level
	format    Format
	out       io.Writer
	now       func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
	}
}

// WithLevel sets the minimum level that is written.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// WithFormat selects text or JSON output.
func WithFormat(format Format) Option {
	return func(l *Logger) {
		l.format = format
	}
}

// WithSession sets the session id instead of generating one.
func WithSession(id string) Option {
	return func(l *Logger) {
		l.session = id
	}
}

// NewSessionID returns a new lexically sortable session id.
func NewSessionID() string {
	return ulid.Make().String()
}

// New creates a new logger for a component
func New(component string, opts ...Option) *Logger {
	l := &Logger{
		mu:        &sync.Mutex{},
		component: component,
		level:     LevelInfo,
		format:    FormatText,
		out:       os.Stderr,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.session == "" {
		l.session = NewSessionID()
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New("nop", WithOutput(io.Discard), WithSession("nop"))
}

// WithComponent returns a logger sharing output and session under another component.
func (l *Logger) WithComponent(component string) *Logger {
	c := *l
	c.component = component
	return &c
}

// Session returns the id shared by every line of this process.
func (l *Logger) Session() string {
	return l.session
}

// Enabled reports whether events at level are written.
func (l *Logger) Enabled(level Level) bool {
	return levelRank[level] >= levelRank[l.level]
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]interface{}, err error) {
	if !l.Enabled(level) {
		return
	}

	e := Event{
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Session:   l.session,
		Event:     event,
		Extra:     extra,
	}
	if err != nil {
		e.Error = err.Error()
	}

	var line string
	if l.format == FormatJSON {
		data, _ := json.Marshal(e)
		line = string(data)
	} else {
		line = formatText(e)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, line)
}

func formatText(e Event) string {
	var sb strings.Builder
	sb.WriteString(levelColor(e.Level).Sprint(Prefix))
	sb.WriteByte(' ')
	sb.WriteString(e.Event)

	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Extra[k])
	}

	if e.Error != "" {
		sb.WriteString(": ")
		sb.WriteString(color.RedString(e.Error))
	}
	return sb.String()
}

func levelColor(level Level) *color.Color {
	switch level {
	case LevelDebug:
		return color.New(color.FgHiBlack)
	case LevelWarn:
		return color.New(color.FgYellow)
	case LevelError:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(LevelError, event, extra, err)
}

// TimedEvent logs a debug event with the elapsed time since start.
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	if extra == nil {
		extra = make(map[string]interface{}, 1)
	}
	extra["duration_ms"] = l.now().Sub(start).Milliseconds()
	l.log(LevelDebug, event, extra, nil)
}

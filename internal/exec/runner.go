// Package exec provides a testable command execution abstraction.
// Every subprocess devtask starts goes through a Runner so sessions can be
// exercised against a MockRunner.
package exec

import (
	"bytes"
	"context"
	"io"
	"os"
	osexec "os/exec"
	"strings"
)

// Runner defines the interface for executing external commands.
// Commands are always given as an explicit argument vector; nothing is
// interpreted by a shell.
type Runner interface {
	// Output runs a command in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// CombinedOutput runs a command in dir and returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// Run executes a command in dir, streaming its output.
	Run(ctx context.Context, dir, name string, args ...string) error

	// LookPath searches PATH for an executable.
	LookPath(name string) (string, error)
}

// OSRunner implements Runner using os/exec.
type OSRunner struct {
	// Env overrides environment variables (nil = inherit from parent)
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewOSRunner creates a runner attached to the process's standard streams.
func NewOSRunner() *OSRunner {
	return &OSRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (r *OSRunner) command(ctx context.Context, dir, name string, args []string) *osexec.Cmd {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if r.Env != nil {
		cmd.Env = r.Env
	}
	return cmd
}

// Output runs a command and returns its stdout. Stderr is kept on the
// returned *exec.ExitError.
func (r *OSRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return r.command(ctx, dir, name, args).Output()
}

// CombinedOutput runs a command and returns combined output.
func (r *OSRunner) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return r.command(ctx, dir, name, args).CombinedOutput()
}

// Run executes a command attached to the runner's streams.
func (r *OSRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := r.command(ctx, dir, name, args)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// LookPath searches PATH for an executable.
func (r *OSRunner) LookPath(name string) (string, error) {
	return osexec.LookPath(name)
}

// CommandLine renders name and args as a single space separated line.
// Used for logging and as the MockRunner response key.
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// MockRunner implements Runner for testing.
type MockRunner struct {
	// Calls records all command invocations
	Calls []MockCall

	// Responses maps a full command line, or just the program name, to a response.
	// Full command lines take precedence.
	Responses map[string]MockResponse

	// Paths maps program names to the path LookPath reports.
	// Missing names fail with exec.ErrNotFound.
	Paths map[string]string
}

// MockCall records a single command invocation.
type MockCall struct {
	Name string
	Args []string
	Dir  string
}

// Line returns the call as a command line.
func (c MockCall) Line() string {
	return CommandLine(c.Name, c.Args...)
}

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]MockResponse),
		Paths:     make(map[string]string),
	}
}

// AddResponse sets the response for a command line or program name.
func (m *MockRunner) AddResponse(key string, resp MockResponse) {
	m.Responses[key] = resp
}

// AddPath makes LookPath find name at path.
func (m *MockRunner) AddPath(name, path string) {
	m.Paths[name] = path
}

// Lines returns every recorded call as a command line, in order.
func (m *MockRunner) Lines() []string {
	lines := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		lines = append(lines, c.Line())
	}
	return lines
}

// Called reports whether any recorded call starts with the given command line.
func (m *MockRunner) Called(prefix string) bool {
	for _, c := range m.Calls {
		if strings.HasPrefix(c.Line(), prefix) {
			return true
		}
	}
	return false
}

func (m *MockRunner) record(dir, name string, args []string) MockResponse {
	m.Calls = append(m.Calls, MockCall{Name: name, Args: args, Dir: dir})
	if resp, ok := m.Responses[CommandLine(name, args...)]; ok {
		return resp
	}
	if resp, ok := m.Responses[name]; ok {
		return resp
	}
	return MockResponse{}
}

func (m *MockRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	resp := m.record(dir, name, args)
	return resp.Stdout, resp.Err
}

func (m *MockRunner) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	resp := m.record(dir, name, args)
	var out bytes.Buffer
	out.Write(resp.Stdout)
	out.Write(resp.Stderr)
	return out.Bytes(), resp.Err
}

func (m *MockRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	return m.record(dir, name, args).Err
}

func (m *MockRunner) LookPath(name string) (string, error) {
	if p, ok := m.Paths[name]; ok {
		return p, nil
	}
	return "", &osexec.Error{Name: name, Err: osexec.ErrNotFound}
}

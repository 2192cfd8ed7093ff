// Package session implements the task runner's per-invocation context.
//
// A Session either owns a private tool environment (a virtual environment
// created from a specific python version, used to install helper tools such
// as virtualenv or bump2version) or runs external programs only.
package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joss/devtask/internal/config"
	"github.com/joss/devtask/internal/exec"
	"github.com/joss/devtask/internal/logging"
)

// Options configures a Session.
type Options struct {
	// Name identifies the session (dev, update, release).
	Name string

	// Python is the version the tool environment is created with.
	// Empty means the session has no tool environment.
	Python string

	// Posargs are the positional arguments given after the session name.
	Posargs []string

	// WorkDir is where every command runs.
	WorkDir string

	// EnvDir is the tool environment location. Ignored when Python is empty.
	EnvDir string

	// ErrorOnExternalRun rejects Run calls for programs outside the tool
	// environment unless External is passed.
	ErrorOnExternalRun bool

	Runner exec.Runner
	Logger *logging.Logger

	// Stderr receives the captured output of failed silent commands.
	Stderr io.Writer
}

// Session is the context a task body runs in.
type Session struct {
	opts     Options
	envReady bool
}

// New creates a session. Nil collaborators get process defaults.
func New(opts Options) *Session {
	if opts.Runner == nil {
		opts.Runner = exec.NewOSRunner()
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(opts.Name)
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Python == "" {
		opts.EnvDir = ""
	}
	return &Session{opts: opts}
}

// Name returns the session name.
func (s *Session) Name() string { return s.opts.Name }

// Python returns the tool environment python version, or "".
func (s *Session) Python() string { return s.opts.Python }

// Posargs returns the positional arguments.
func (s *Session) Posargs() []string { return s.opts.Posargs }

// WorkDir returns the directory commands run in.
func (s *Session) WorkDir() string { return s.opts.WorkDir }

// EnvDir returns the tool environment directory, or "" if there is none.
func (s *Session) EnvDir() string { return s.opts.EnvDir }

// BinDir returns the tool environment's executables directory, or "".
func (s *Session) BinDir() string {
	if s.opts.EnvDir == "" {
		return ""
	}
	return config.BinDir(s.opts.EnvDir)
}

// Logger returns the session logger.
func (s *Session) Logger() *logging.Logger { return s.opts.Logger }

// Log writes an informational line to the session log.
func (s *Session) Log(format string, args ...any) {
	s.opts.Logger.Info(fmt.Sprintf(format, args...), nil)
}

// Error builds the error that aborts the session.
func (s *Session) Error(format string, args ...any) error {
	return &SessionError{Session: s.opts.Name, Message: fmt.Sprintf(format, args...)}
}

// RunOption modifies a single Run call.
type RunOption func(*runConfig)

type runConfig struct {
	silent   bool
	external bool
}

// Silent captures the command's output; it is printed only on failure.
func Silent() RunOption {
	return func(c *runConfig) { c.silent = true }
}

// External allows programs that are not installed in the tool environment.
func External() RunOption {
	return func(c *runConfig) { c.external = true }
}

// Run executes argv in the session's working directory.
//
// argv[0] is looked up in the tool environment first. Programs found
// elsewhere need External when ErrorOnExternalRun is set.
func (s *Session) Run(ctx context.Context, argv []string, opts ...RunOption) error {
	if len(argv) == 0 {
		return fmt.Errorf("session %s: empty command", s.opts.Name)
	}

	var rc runConfig
	for _, opt := range opts {
		opt(&rc)
	}

	name, err := s.resolve(argv[0], rc.external)
	if err != nil {
		return err
	}
	return s.exec(ctx, rc.silent, name, argv[1:]...)
}

// resolve maps a program name to the executable that will be started.
func (s *Session) resolve(program string, external bool) (string, error) {
	bin := s.BinDir()
	if bin == "" || filepath.IsAbs(program) {
		return program, nil
	}

	local := filepath.Join(bin, config.Executable(program))
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	if !external && s.opts.ErrorOnExternalRun {
		return "", s.Error("Program %s is not installed in the session environment; pass External to run it anyway", program)
	}
	return program, nil
}

func (s *Session) exec(ctx context.Context, silent bool, name string, args ...string) error {
	line := exec.CommandLine(name, args...)
	s.opts.Logger.Info(line, nil)
	start := time.Now()

	var err error
	if silent {
		var out []byte
		out, err = s.opts.Runner.CombinedOutput(ctx, s.opts.WorkDir, name, args...)
		if err != nil && len(bytes.TrimSpace(out)) > 0 {
			_, _ = s.opts.Stderr.Write(out)
		}
	} else {
		err = s.opts.Runner.Run(ctx, s.opts.WorkDir, name, args...)
	}

	if err != nil {
		s.opts.Logger.Error("Command "+line+" failed", nil, err)
		return err
	}
	s.opts.Logger.TimedEvent("Command finished", start, map[string]interface{}{"command": name})
	return nil
}

// Install installs packages into the tool environment with pip, creating
// the environment on first use.
func (s *Session) Install(ctx context.Context, args ...string) error {
	if s.opts.EnvDir == "" {
		return s.Error("A session without a python environment cannot install packages")
	}
	if err := s.ensureEnv(ctx); err != nil {
		return err
	}

	python := config.Interpreter(s.opts.EnvDir)
	pip := append([]string{"-m", "pip", "install"}, args...)
	return s.exec(ctx, false, python, pip...)
}

// ensureEnv creates the tool environment with the standard venv module.
// An existing environment is reused.
func (s *Session) ensureEnv(ctx context.Context) error {
	if s.envReady {
		return nil
	}
	if _, err := os.Stat(config.Interpreter(s.opts.EnvDir)); err == nil {
		s.envReady = true
		return nil
	}

	if err := config.IgnoreDir(filepath.Dir(s.opts.EnvDir)); err != nil {
		return err
	}

	s.opts.Logger.Info(fmt.Sprintf("Creating virtual environment (virtualenv) using %s in %s",
		config.PythonCommand(s.opts.Python), s.opts.EnvDir), nil)

	err := s.exec(ctx, true, config.PythonCommand(s.opts.Python), "-m", "venv", s.opts.EnvDir)
	if err != nil {
		return err
	}
	s.envReady = true
	return nil
}

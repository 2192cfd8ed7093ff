package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/devtask/internal/release"
	"github.com/joss/devtask/internal/render"
	"github.com/joss/devtask/internal/session"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks bad command-line input; the command's usage is shown.
type usageError struct {
	cmd *cobra.Command
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(cmd *cobra.Command, format string, args ...any) error {
	return &usageError{cmd: cmd, err: fmt.Errorf(format, args...)}
}

// exitCode prints err and maps it to the process exit code.
func (a *app) exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(a.stderr, "Error: %v\n", err)

	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprint(a.stderr, usage.cmd.UsageString())
		return exitUsage
	}
	return exitFailure
}

// sessionFunc is the body of a session.
type sessionFunc func(ctx context.Context, s *session.Session) error

// newSession creates a session rooted at the project. python selects the
// tool environment version; "" means none.
func (a *app) newSession(name, python string, posargs []string) *session.Session {
	return session.New(session.Options{
		Name:               name,
		Python:             python,
		Posargs:            posargs,
		WorkDir:            a.cfg.ProjectRoot,
		EnvDir:             a.cfg.ToolEnvPath(name),
		ErrorOnExternalRun: a.cfg.ErrorOnExternalRun,
		Runner:             a.runner,
		Logger:             a.log.WithComponent(name),
		Stderr:             a.stderr,
	})
}

// runSession runs body inside an audited session and prints its outcome.
func (a *app) runSession(name, python string, posargs []string, body sessionFunc) error {
	ctx := a.ctx()
	s := a.newSession(name, python, posargs)

	event := a.auditLogger.Start(ctx, name, posargs)
	start := time.Now()
	a.log.Info("Running session "+name, nil)

	err := body(ctx, s)

	if auditErr := a.auditLogger.Finish(event, err); auditErr != nil {
		a.log.Warn("Audit write failed", nil, auditErr)
	}
	render.NewWriter(a.stderr).Outcome(name, time.Since(start), err)
	return err
}

// releaseUsage turns an argument error from the release workflow into a
// usage error for cmd.
func releaseUsage(cmd *cobra.Command, err error) error {
	var usage *release.UsageError
	if errors.As(err, &usage) {
		return &usageError{cmd: cmd, err: err}
	}
	return err
}

// noArgs rejects positional arguments with a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf(cmd, "unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

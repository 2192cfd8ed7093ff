package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/devtask/internal/audit"
	"github.com/joss/devtask/internal/config"
	"github.com/joss/devtask/internal/exec"
	"github.com/joss/devtask/internal/git"
	"github.com/joss/devtask/internal/logging"
	"github.com/joss/devtask/internal/render"
	"github.com/joss/devtask/internal/runtime"
)

// app holds the process-wide collaborators built once flags are parsed.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	lookup config.LookupFunc

	// Global flags
	configFile string
	projectDir string
	logLevel   string
	logFormat  string
	noColor    bool

	cfg         *config.Config
	log         *logging.Logger
	runner      *exec.OSRunner
	repo        *git.Inspector
	auditLogger *audit.Logger
	shutdown    *runtime.ShutdownManager
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		lookup: os.LookupEnv,
	}
}

// setup loads configuration and wires the collaborators for cmd.
func (a *app) setup(cmd *cobra.Command) error {
	loader := config.NewLoader().WithEnvLookup(a.lookup)
	if a.projectDir != "" {
		loader.WithProjectRoot(a.projectDir)
	}
	if a.configFile != "" {
		loader.WithConfigFile(a.configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	// Flags win over file and environment.
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return usageErrorf(cmd, "%v", err)
	}
	a.cfg = cfg

	render.ConfigureColor(a.noColor || cfg.Env.NoColor, fd(a.stdout))

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.log = logging.New("devtask",
		logging.WithOutput(a.stderr),
		logging.WithLevel(level),
		logging.WithFormat(logging.Format(cfg.Log.Format)),
	)

	a.runner = &exec.OSRunner{Stdin: a.stdin, Stdout: a.stdout, Stderr: a.stderr}
	a.repo = git.NewInspector(a.runner, cfg.ProjectRoot)

	a.shutdown = runtime.NewShutdownManager(context.Background(), a.log.WithComponent("runtime"))
	a.shutdown.ListenForSignals()

	a.auditLogger = audit.Disabled()
	if cfg.Audit.Enabled {
		if err := config.IgnoreDir(cfg.StateDir()); err != nil {
			return err
		}
		l, err := audit.Open(cfg.AuditPath(),
			audit.WithRunID(a.log.Session()),
			audit.WithProject(cfg.ProjectRoot),
			audit.WithGit(a.repo),
		)
		if err != nil {
			return err
		}
		a.auditLogger = l
		a.shutdown.Register("audit", l.Close)
	}

	a.log.Debug("Loaded configuration", map[string]interface{}{
		"project": cfg.ProjectRoot,
		"venv":    cfg.VenvPath(),
		"ci":      cfg.Env.CI,
	})
	return nil
}

// ctx returns the context sessions run with.
func (a *app) ctx() context.Context {
	if a.shutdown == nil {
		return context.Background()
	}
	return a.shutdown.Context()
}

func (a *app) close() {
	if a.shutdown != nil {
		a.shutdown.Shutdown()
	}
}

// fd returns w's file descriptor, or -1 when w is not a file.
func fd(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		return int(f.Fd())
	}
	return -1
}

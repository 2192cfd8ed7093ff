// Package devenv creates and maintains the project's development
// virtual environment.
package devenv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joss/devtask/internal/config"
	"github.com/joss/devtask/internal/editor"
	"github.com/joss/devtask/internal/exec"
	"github.com/joss/devtask/internal/session"
)

// Bootstrapper implements the dev session.
type Bootstrapper struct {
	cfg    *config.Config
	runner exec.Runner
	editor *editor.Configurator
}

// NewBootstrapper creates a bootstrapper. runner is only used to discover
// editors on PATH; commands go through the session.
func NewBootstrapper(cfg *config.Config, runner exec.Runner) *Bootstrapper {
	return &Bootstrapper{
		cfg:    cfg,
		runner: runner,
		editor: editor.NewConfigurator(cfg.SettingsPath()),
	}
}

// VenvExists reports whether the project virtual environment directory exists.
func VenvExists(cfg *config.Config) (bool, error) {
	_, err := os.Stat(cfg.VenvPath())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", cfg.VenvPath(), err)
}

// ShouldAutoRun reports whether dev runs when no session is named: only
// when there is no environment yet and we are not on CI.
func ShouldAutoRun(cfg *config.Config) bool {
	exists, err := VenvExists(cfg)
	return err == nil && !exists && !cfg.Env.CI
}

// Dev creates the project virtual environment and installs the project
// with its development extras into it.
//
// It refuses to touch an existing environment. Nothing is cleaned up when a
// later step fails.
func (b *Bootstrapper) Dev(ctx context.Context, s *session.Session) error {
	exists, err := VenvExists(b.cfg)
	if err != nil {
		return err
	}
	if exists {
		return s.Error("There is already a virtual environment at %s; deactivate and remove it before running 'dev' again", b.cfg.VenvPath())
	}

	// virtualenv lives in the session's tool environment, so the project
	// environment gets the session's python version.
	if err := s.Install(ctx, b.cfg.VenvTool); err != nil {
		return err
	}
	if err := s.Run(ctx, []string{b.cfg.VenvTool, b.cfg.VenvPath()}, session.Silent()); err != nil {
		return err
	}

	python := b.cfg.VenvPython()
	seeds := append([]string{python, "-m", "pip", "install", "--upgrade"}, b.cfg.Seeds...)
	if err := s.Run(ctx, seeds, session.Silent(), session.External()); err != nil {
		return err
	}
	install := []string{python, "-m", "pip", "install", "-e", b.cfg.InstallTarget}
	if err := s.Run(ctx, install, session.External()); err != nil {
		return err
	}

	if editorCmd, ok := b.findEditor(); ok {
		s.Logger().Debug("Found editor", map[string]interface{}{"command": editorCmd})
		return b.setUpEditor(s)
	}
	return nil
}

// findEditor returns the first configured editor command found on PATH.
func (b *Bootstrapper) findEditor() (string, bool) {
	for _, name := range b.cfg.EditorCommands {
		if _, err := b.runner.LookPath(name); err == nil {
			return name, true
		}
	}
	return "", false
}

func (b *Bootstrapper) setUpEditor(s *session.Session) error {
	wrote, err := b.editor.Configure(b.cfg.VenvPython())
	if err != nil {
		return err
	}
	if wrote {
		s.Log("Set up VSCode workspace in %s", b.editor.SettingsFile())
	}
	return nil
}

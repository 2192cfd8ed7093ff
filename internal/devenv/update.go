package devenv

import (
	"context"

	"github.com/joss/devtask/internal/config"
	"github.com/joss/devtask/internal/session"
)

// Updater implements the update session.
type Updater struct {
	cfg *config.Config
}

// NewUpdater creates an updater.
func NewUpdater(cfg *config.Config) *Updater {
	return &Updater{cfg: cfg}
}

// Update upgrades the project's dependencies within the version specifiers
// declared by the project. It assumes the environment exists; if it does
// not, the interpreter launch error is returned as is.
func (u *Updater) Update(ctx context.Context, s *session.Session) error {
	argv := []string{u.cfg.VenvPython(), "-m", "pip", "install", "--upgrade", "-e", u.cfg.InstallTarget}
	return s.Run(ctx, argv, session.External())
}

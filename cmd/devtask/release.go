package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joss/devtask/internal/release"
	"github.com/joss/devtask/internal/session"
)

func releaseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   release.Usage,
		Short: "Bump, tag and push a new version",
		Long: `Release a new semantic version.

Checks that the working tree is clean and on the default branch, asks for
confirmation, bumps the version with bump2version, then pushes the commit
and the new tag.`,
		Example: "  devtask release -- patch",
		// The kind is validated after the repository checks.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return releaseUsage(cmd, a.runRelease(args))
		},
	}
}

func (a *app) runRelease(args []string) error {
	o := release.NewOrchestrator(release.Options{
		Repo:          a.repo,
		Confirmer:     release.NewConsoleConfirmer(a.stdin, a.stdout),
		DefaultBranch: a.cfg.DefaultBranch,
		Seeds:         a.cfg.Seeds,
		BumpTool:      a.cfg.BumpTool,
	})

	return a.runSession("release", a.cfg.DefaultPython, args, func(ctx context.Context, s *session.Session) error {
		kind, err := o.Release(ctx, s)
		s.Logger().Debug("Release finished", map[string]interface{}{
			"kind":    string(kind),
			"state":   o.State().String(),
			"reached": o.Reached().String(),
		})
		return err
	})
}

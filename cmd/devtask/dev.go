package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/devtask/internal/devenv"
)

func devCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Create the project virtual environment",
		Long: `Set up a python development environment for the project.

Creates a tool environment, installs virtualenv into it, uses virtualenv to
create the project virtual environment, then installs the project with its
development extras. If VSCode is on PATH and the workspace has no settings
file yet, points VSCode at the new interpreter.

Refuses to run if the virtual environment already exists.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDev()
		},
	}
}

func (a *app) runDev() error {
	b := devenv.NewBootstrapper(a.cfg, a.runner)
	return a.runSession("dev", a.cfg.DefaultPython, nil, b.Dev)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/joss/devtask/internal/devenv"
)

func updateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Upgrade the project's dependencies",
		Long: `Upgrade the dependencies in the project virtual environment to their
latest versions allowed by the project's version specifiers.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := devenv.NewUpdater(a.cfg)
			// No tool environment: update only drives the project interpreter.
			return a.runSession("update", "", nil, u.Update)
		},
	}
}

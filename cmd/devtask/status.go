package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/devtask/internal/selftest"
)

// statusCmd shows the development setup without changing anything.
func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the development environment status",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			report := selftest.Check(a.ctx(), a.cfg, a.runner, a.repo)
			fmt.Fprint(cmd.OutOrStdout(), report.Summary())
		},
	}
}

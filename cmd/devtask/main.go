// Package main provides the devtask CLI entrypoint.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/devtask/internal/devenv"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	root := rootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	a.close()
	return a.exitCode(err)
}

func rootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devtask",
		Short: "Development environment and release automation for a python project",
		Long: `devtask: set up, update and release a python project.

Usage modes:
  devtask                          Run 'dev' if there is no virtual environment
                                   yet and we are not on CI, else show help
  devtask dev                      Create the project virtual environment
  devtask update                   Upgrade the project's dependencies
  devtask release -- patch         Bump, tag and push a new version`,
		Version:       versionString(),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf(cmd, "unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !devenv.ShouldAutoRun(a.cfg) {
				return cmd.Help()
			}
			return a.runDev()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default: devtask.yaml, .devtask.yaml or devtask.toml in the project)")
	rootCmd.PersistentFlags().StringVar(&a.projectDir, "project", "", "Project root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{cmd: cmd, err: err}
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: "sessions", Title: "Sessions:"},
		&cobra.Group{ID: "diagnostics", Title: "Diagnostics:"},
	)

	dev := devCmd(a)
	dev.GroupID = "sessions"
	rootCmd.AddCommand(dev)

	update := updateCmd(a)
	update.GroupID = "sessions"
	rootCmd.AddCommand(update)

	rel := releaseCmd(a)
	rel.GroupID = "sessions"
	rootCmd.AddCommand(rel)

	status := statusCmd(a)
	status.GroupID = "diagnostics"
	rootCmd.AddCommand(status)

	// Ungrouped
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// Package cli implements the CLI adapter for dockhand.
// This package provides Cobra commands that delegate to the console use cases.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	serverURL  string
	output     string
	logLevel   string
	verbose    bool
}

// NewRootCmd creates the root command for the dockhand CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultConsoleOpener)
}

func newRootCmd(opener consoleOpener) *cobra.Command {
	flags := &rootFlags{}
	env := &cmdEnv{flags: flags, open: opener}

	rootCmd := &cobra.Command{
		Use:   "dockhand",
		Short: "dockhand - operator console for yadoma container servers",
		Long: `dockhand is a command line console for a yadoma server.

It lets you sign in, list and manage your containers, follow their logs
and live resource usage, and, as an administrator, manage user accounts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOutput(flags.output)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to config file (default: ./dockhand.toml or ~/.config/dockhand/dockhand.toml)")
	pf.StringVarP(&flags.serverURL, "server", "s", "", "yadoma server URL, overrides server.url")
	pf.StringVarP(&flags.output, "output", "o", outputTable, "Output format: table, json or yaml")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Shorthand for --log-level=debug")

	rootCmd.AddCommand(newLoginCmd(env))
	rootCmd.AddCommand(newLogoutCmd(env))
	rootCmd.AddCommand(newRegisterCmd(env))
	rootCmd.AddCommand(newWhoamiCmd(env))
	rootCmd.AddCommand(newPsCmd(env))
	rootCmd.AddCommand(newInspectCmd(env))
	rootCmd.AddCommand(newCreateCmd(env))
	for _, kind := range containerActions {
		rootCmd.AddCommand(newActionCmd(env, kind))
	}
	rootCmd.AddCommand(newLogsCmd(env))
	rootCmd.AddCommand(newStatsCmd(env))
	rootCmd.AddCommand(newUsersCmd(env))
	rootCmd.AddCommand(newSystemCmd(env))
	rootCmd.AddCommand(newDashboardCmd(env))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cliWritef(cmd.OutOrStdout(), "dockhand %s\nCommit: %s\nBuild Date: %s\n", Version, Commit, BuildDate)
		},
	}
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(version, commit, date string) {
	Version = version
	Commit = commit
	BuildDate = date
}

// Execute runs the root command and prints a failure banner on stderr.
func Execute(ctx context.Context) int {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), cliRenderError(errorMessage(err)))
		return 1
	}
	return 0
}

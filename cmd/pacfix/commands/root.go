package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pacfix/pacfix/pkg/engine"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	var fix bool

	rootCmd := &cobra.Command{
		Use:   "pacfix [package]",
		Short: "Automated package conflict resolution for pacman systems",
		Long: `pacfix untangles failed system upgrades on pacman-family systems:
file ownership conflicts, unsatisfiable dependencies and obsolete
targets, the usual state of a freshly installed metadistribution whose
first full upgrade fails.

It repeatedly invokes the package manager, classifies its diagnostics
and applies a remediation per issue (remove a conflicting package,
remove a dependent, mark for reinstall, overwrite on upgrade) until the
system converges. Removed packages are reinstalled automatically unless
the repositories no longer carry them or they were removed because a
dependency of theirs cannot be satisfied.`,
		Example: `  # Fix all conflicts automatically
  pacfix --fix

  # Drive resolution starting from one package
  pacfix linux-headers

  # Show past resolution runs
  pacfix history`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			switch {
			case fix && len(args) == 0:
				target = engine.FixTarget
			case !fix && len(args) == 1:
				target = args[0]
			default:
				return fmt.Errorf("specify exactly one of --fix or a package name")
			}
			// Arguments are valid; a failure past this point is a
			// resolution failure, not a usage problem.
			cmd.SilenceUsage = true
			return runResolve(cmd.Context(), target)
		},
	}

	rootCmd.Flags().BoolVar(&fix, "fix", false, "fix all conflicts automatically")

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

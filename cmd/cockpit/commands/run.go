package commands

import (
	"github.com/maastrich/cockpit/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...] [-- extra args]",
		Short: "Run the given tasks and their dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if len(args) == 0 && !all {
				return cmd.Help()
			}
			force, _ := cmd.Flags().GetBool("force")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			continueOnError, _ := cmd.Flags().GetBool("continue-on-error")
			concurrency, _ := cmd.Flags().GetInt64("concurrency")

			targets, extraArgs := splitExtraArgs(args, cmd.ArgsLenAtDash())

			_, err := c.app.Run(cmd.Context(), cwdFlag(cmd), targets, app.RunOptions{
				Concurrency:     concurrency,
				ContinueOnError: continueOnError,
				Force:           force,
				DryRun:          dryRun,
				ExtraArgs:       extraArgs,
				All:             all,
			})
			return err
		},
	}

	cmd.Flags().Bool("force", false, "Bypass the cache and re-run every task")
	cmd.Flags().Bool("dry-run", false, "Report what would run without executing anything")
	cmd.Flags().Bool("continue-on-error", false, "Keep running independent tasks after a failure")
	cmd.Flags().Bool("all", false, "Run every task across every workspace")
	cmd.Flags().Int64("concurrency", 0, "Maximum number of tasks to run in parallel (default: number of CPUs)")

	return cmd
}

// splitExtraArgs separates the task target names from the literal extra
// args passed after a "--" separator (spec §4.6's extraArgs contract).
func splitExtraArgs(args []string, dashAt int) (targets, extraArgs []string) {
	if dashAt < 0 || dashAt >= len(args) {
		return args, nil
	}
	return args[:dashAt], args[dashAt:]
}

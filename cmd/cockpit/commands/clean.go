package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Delete a task's declared cleanup paths and invalidate its cache entry",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if len(args) == 0 && !all {
				return cmd.Help()
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			results, err := c.app.Clean(cwdFlag(cmd), args, all, dryRun)
			if err != nil {
				return err
			}
			for _, r := range results {
				for _, p := range r.Deleted {
					fmt.Fprintln(cmd.OutOrStdout(), p) //nolint:errcheck // best-effort CLI output
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Clean every task across every workspace")
	cmd.Flags().Bool("dry-run", false, "List what would be deleted without deleting it")

	return cmd
}

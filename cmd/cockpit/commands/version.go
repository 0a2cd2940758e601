package commands

import (
	"fmt"

	"github.com/maastrich/cockpit/internal/build"
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.Version) //nolint:errcheck // best-effort CLI output
		},
	}
}

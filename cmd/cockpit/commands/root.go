// Package commands implements the CLI commands for the cockpit task runner.
package commands

import (
	"context"
	"io"

	"github.com/maastrich/cockpit/internal/app"
	"github.com/maastrich/cockpit/internal/build"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for cockpit.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "cockpit",
		Short:         "A task runner for monorepos",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}
	rootCmd.PersistentFlags().String("cwd", ".", "Directory to resolve the configuration from")

	c := &CLI{app: a, rootCmd: rootCmd}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func cwdFlag(cmd *cobra.Command) string {
	cwd, _ := cmd.Flags().GetString("cwd")
	return cwd
}

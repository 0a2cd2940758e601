// Package main is the entry point for the cockpit CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"github.com/maastrich/cockpit/cmd/cockpit/commands"
	"github.com/maastrich/cockpit/internal/app"
	"github.com/maastrich/cockpit/internal/core/domain"
	_ "github.com/maastrich/cockpit/internal/wiring"
)

// ComponentProvider resolves the application's Graft-registered dependency graph.
type ComponentProvider func(context.Context) (*app.App, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.App, func(), error) {
		a, _, err := graft.ExecuteFor[*app.App](ctx)
		return a, func() {}, err
	}))
}

func run(ctx context.Context, args []string, stderr io.Writer, provider ComponentProvider) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, cleanup, err := provider(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	cli := commands.New(a)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrRunFailed) {
			return 1
		}
		_, _ = fmt.Fprintf(stderr, "Error: %+v\n", err)
		return 1
	}
	return 0
}

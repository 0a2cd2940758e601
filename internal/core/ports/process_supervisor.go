// Package ports defines the core interfaces the engine consumes: process
// supervision, caching, hashing, logging, tracing and glob resolution.
// Adapters under internal/adapters implement these against the real
// filesystem, OS processes and terminal.
package ports

import (
	"context"
)

// SpawnRequest is the normalized form of a task's command, ready to hand to
// the process supervisor (spec §4.6). The runner is responsible for the
// command/extraArgs normalization described there before building one.
type SpawnRequest struct {
	// Program is the executable to run. Shell-form commands set Program to
	// the shell ("/bin/sh") and Args to ["-c", fullCommandString].
	Program string
	Args    []string
	Cwd     string
	Env     []string
	Timeout int // milliseconds; zero means no timeout

	OnStdout func(line string)
	OnStderr func(line string)
}

// ProcessResult is the outcome of one supervised spawn (spec §4.6).
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Killed   bool
}

// ProcessSupervisor spawns a child process, applies a timeout with
// SIGTERM-then-SIGKILL escalation, and streams output to callbacks. It never
// returns an error from Spawn itself — spawn failures are folded into
// ProcessResult (spec §4.6: "the supervisor never throws").
type ProcessSupervisor interface {
	Spawn(ctx context.Context, req SpawnRequest) ProcessResult
}

// Package runner implements the per-task state machine (spec §4.7): resolve
// working directory, compose environment, probe the cache, execute via the
// process supervisor on a miss, and commit the result back to the cache.
// The teacher inlines this directly into its scheduler; it is split out
// here because the spec gives it a distinct budget share as component #7.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/core/ports"
	"go.trai.ch/zerr"
)

// Status is the outcome surfaced to the scheduler (spec §4.7).
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusCached  Status = "cached"
)

// Result is what Run returns for one task.
type Result struct {
	TaskID   domain.TaskId
	Status   Status
	Err      error
	Duration time.Duration
}

// Options configures one Run invocation.
type Options struct {
	// ContextEnv is the context-provided environment overlay (spec §4.7
	// step 2), applied before the workspace and task env overlays.
	ContextEnv map[string]string
	// WorkspaceEnv is the owning workspace's task-config env overlay.
	WorkspaceEnv map[string]string
	// ExtraArgs is fed into the input hash only when the task is a
	// main/root task of the current run (spec §4.4 step 2).
	ExtraArgs []string
	IsMainTask bool
	Force      bool
	DryRun     bool
}

// Runner wires the ports a Run invocation needs.
type Runner struct {
	Supervisor ports.ProcessSupervisor
	Hasher     ports.Hasher
	Cache      ports.CacheStore
	Logger     ports.Logger
}

// New builds a Runner from its four collaborators.
func New(supervisor ports.ProcessSupervisor, hasher ports.Hasher, cache ports.CacheStore, logger ports.Logger) *Runner {
	return &Runner{Supervisor: supervisor, Hasher: hasher, Cache: cache, Logger: logger}
}

// Run drives one task through the full state machine.
func (r *Runner) Run(ctx context.Context, task domain.ResolvedTask, opts Options) Result {
	start := time.Now()
	def := task.Definition

	// Step 2: compose environment.
	env := composeEnv(opts.ContextEnv, opts.WorkspaceEnv, def.Env)

	// Step 3: determine if caching applies.
	cacheEnabled := def.CacheEnabled() && r.Cache != nil

	var inputHash string
	if cacheEnabled {
		var extraArgs []string
		if opts.IsMainTask {
			extraArgs = opts.ExtraArgs
		}
		hash, err := r.Hasher.ComputeInputHash(task, task.WorkingDir, extraArgs)
		if err != nil {
			cacheEnabled = false
		} else {
			inputHash = hash
			if !opts.Force {
				if res, done := r.probeCache(task, inputHash, start); done {
					return res
				}
			}
		}
	}

	// Step 5: platform short-circuit, then dry-run short-circuit.
	if !def.Platform.Matches() {
		r.Logger.Task(task.ID, ports.StatusSkipped, "platform")
		return Result{TaskID: task.ID, Status: StatusSkipped, Duration: time.Since(start)}
	}
	if opts.DryRun {
		r.Logger.Task(task.ID, ports.StatusSkipped, "dry run")
		return Result{TaskID: task.ID, Status: StatusSkipped, Duration: time.Since(start)}
	}

	// Step 6-7: execute and interpret.
	var extraArgs []string
	if opts.IsMainTask {
		extraArgs = opts.ExtraArgs
	}
	result := r.execute(ctx, task, env, extraArgs)
	if result.Status != StatusSuccess {
		result.Duration = time.Since(start)
		return result.Result
	}

	// Step 8: commit to cache.
	if cacheEnabled && inputHash != "" {
		_ = r.Cache.Store(ports.StoreRequest{
			TaskID:        task.ID,
			InputHash:     inputHash,
			Outputs:       def.Outputs,
			WorkspacePath: task.WorkingDir,
			OutputChunks:  result.chunks,
		})
	}

	result.Duration = time.Since(start)
	return result.Result
}

func composeEnv(contextEnv, workspaceEnv, taskEnv map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range contextEnv {
		out[k] = v
	}
	for k, v := range workspaceEnv {
		out[k] = v
	}
	for k, v := range taskEnv {
		out[k] = v
	}
	return out
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

// probeCache implements step 4: cache hit on disk replays directly; a hit
// with missing outputs falls back to restore, then to execution.
func (r *Runner) probeCache(task domain.ResolvedTask, inputHash string, start time.Time) (Result, bool) {
	has, err := r.Cache.Has(task.ID, inputHash)
	if err != nil || !has {
		return Result{}, false
	}

	onDisk, err := r.Cache.HasOutputsOnDisk(task.ID, inputHash, task.WorkingDir)
	if err == nil && onDisk {
		r.Logger.Task(task.ID, ports.StatusCached, "")
		r.replay(task.ID, inputHash)
		return Result{TaskID: task.ID, Status: StatusCached, Duration: time.Since(start)}, true
	}

	restored, err := r.Cache.RestoreOutputs(task.ID, inputHash, task.WorkingDir)
	if err == nil && restored > 0 {
		r.Logger.Task(task.ID, ports.StatusRestored, "")
		r.replay(task.ID, inputHash)
		return Result{TaskID: task.ID, Status: StatusCached, Duration: time.Since(start)}, true
	}

	// Cache hit but outputs missing on restore: fall through to execute.
	return Result{}, false
}

func (r *Runner) replay(taskID, inputHash string) {
	chunks, err := r.Cache.GetOutputChunks(taskID, inputHash)
	if err != nil {
		return
	}
	for _, c := range chunks {
		if c.Stream == domain.StreamStdout {
			r.Logger.TaskStdout(taskID, c.Data)
		} else {
			r.Logger.TaskStderr(taskID, c.Data)
		}
	}
}

// execResult carries the captured OutputChunk buffer alongside the public
// Result, so Run can commit it to the cache without re-exporting the field.
type execResult struct {
	Result
	chunks []domain.OutputChunk
}

func (r *Runner) execute(ctx context.Context, task domain.ResolvedTask, env map[string]string, extraArgs []string) execResult {
	def := task.Definition
	r.Logger.Task(task.ID, ports.StatusStarting, "")

	var chunks []domain.OutputChunk
	program, args := normalizeCommand(def.Command, extraArgs)

	res := r.Supervisor.Spawn(ctx, ports.SpawnRequest{
		Program: program,
		Args:    args,
		Cwd:     task.WorkingDir,
		Env:     envSlice(env),
		Timeout: def.EffectiveTimeout(),
		OnStdout: func(line string) {
			chunks = append(chunks, domain.OutputChunk{Stream: domain.StreamStdout, Data: line})
			r.Logger.TaskStdout(task.ID, line)
		},
		OnStderr: func(line string) {
			chunks = append(chunks, domain.OutputChunk{Stream: domain.StreamStderr, Data: line})
			r.Logger.TaskStderr(task.ID, line)
		},
	})

	switch {
	case res.Killed:
		r.Logger.Task(task.ID, ports.StatusFailed, "timeout")
		err := zerr.With(zerr.With(domain.ErrTaskTimeout, "task", task.ID), "timeout_ms", def.EffectiveTimeout())
		return execResult{Result: Result{TaskID: task.ID, Status: StatusFailed, Err: err}, chunks: chunks}
	case res.ExitCode != 0 && def.AllowFailure:
		r.Logger.Task(task.ID, ports.StatusSuccess, fmt.Sprintf("exit %d, allowed", res.ExitCode))
		return execResult{Result: Result{TaskID: task.ID, Status: StatusSuccess}, chunks: chunks}
	case res.ExitCode != 0:
		r.Logger.Task(task.ID, ports.StatusFailed, fmt.Sprintf("exit %d", res.ExitCode))
		tail := res.Stderr
		if len(tail) > 1024 {
			tail = tail[len(tail)-1024:]
		}
		err := zerr.With(zerr.With(domain.ErrTaskExecution, "task", task.ID), "exit_code", res.ExitCode)
		err = zerr.With(err, "stderr_tail", tail)
		return execResult{Result: Result{TaskID: task.ID, Status: StatusFailed, Err: err}, chunks: chunks}
	default:
		r.Logger.Task(task.ID, ports.StatusSuccess, "")
		return execResult{Result: Result{TaskID: task.ID, Status: StatusSuccess}, chunks: chunks}
	}
}

// normalizeCommand implements spec §4.6's command normalization, returning
// a (program, args) pair ready for the supervisor. extraArgs (from `cockpit
// run <task> -- <args>`) are appended to the tail of the invoked command:
// for a shell string, appended as literal text; for a chain, appended only
// to the last link; for a struct, appended to the tail of args.
func normalizeCommand(cmd domain.Command, extraArgs []string) (string, []string) {
	switch cmd.Kind {
	case domain.CommandShellChain:
		parts := make([]string, len(cmd.Chain))
		copy(parts, cmd.Chain)
		if last := len(parts) - 1; last >= 0 && len(extraArgs) > 0 {
			parts[last] = parts[last] + " " + strings.Join(extraArgs, " ")
		}
		return "/bin/sh", []string{"-c", strings.Join(parts, " && ")}
	case domain.CommandStruct:
		args := append(append([]string{}, cmd.Args...), extraArgs...)
		if cmd.UseShell {
			parts := append([]string{cmd.Program}, args...)
			for i, p := range parts {
				parts[i] = shellQuote(p)
			}
			return "/bin/sh", []string{"-c", strings.Join(parts, " ")}
		}
		return cmd.Program, args
	default:
		shell := cmd.Shell
		if len(extraArgs) > 0 {
			shell = shell + " " + strings.Join(extraArgs, " ")
		}
		return "/bin/sh", []string{"-c", shell}
	}
}

// shellQuote single-quotes value for safe interpolation into a /bin/sh -c
// script, escaping embedded single quotes the POSIX way.
func shellQuote(value string) string {
	if value == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

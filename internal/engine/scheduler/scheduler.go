// Package scheduler drives a domain.TaskGraph level by level with bounded
// parallelism, cascading failures to dependents and streaming each task's
// child-process I/O through the runner (spec §4.8). Grounded on the
// teacher's Kahn-live dispatch loop, restructured around the graph's
// precomputed ParallelLevels instead of an in-degree countdown, since the
// spec fixes levels as part of the TaskGraph's own invariants.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/engine/runner"
	"golang.org/x/sync/semaphore"
)

// Options configures one Run invocation (spec §4.8).
type Options struct {
	Concurrency     int64
	ContinueOnError bool
	Force           bool
	DryRun          bool
	ExtraArgs       []string
	ContextEnv      map[string]string
}

// Scheduler walks a graph's parallel levels, dispatching ready tasks to a
// runner.Runner under a counting semaphore.
type Scheduler struct {
	graph  *domain.TaskGraph
	runner *runner.Runner
}

// New builds a Scheduler for one graph.
func New(graph *domain.TaskGraph, r *runner.Runner) *Scheduler {
	return &Scheduler{graph: graph, runner: r}
}

// RunResult is the engine's overall outcome (spec §1's "engine returns
// {success, results, summary}").
type RunResult struct {
	Success bool
	Results []runner.Result
}

// Run executes the graph and returns exactly one result per task (spec §8
// invariant 8).
func (s *Scheduler) Run(ctx context.Context, opts Options) RunResult {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	sem := semaphore.NewWeighted(opts.Concurrency)

	rootSet := make(map[domain.TaskId]bool, len(s.graph.RootTasks))
	for _, id := range s.graph.RootTasks {
		rootSet[id] = true
	}

	failed := make(map[domain.TaskId]bool)
	completed := make(map[domain.TaskId]bool)
	var results []runner.Result
	var mu sync.Mutex

	anyFailed := false

	for _, level := range s.graph.ParallelLevels {
		if anyFailed && !opts.ContinueOnError {
			for _, id := range level {
				results = append(results, runner.Result{TaskID: id, Status: runner.StatusSkipped})
			}
			continue
		}

		var wg sync.WaitGroup
		for _, id := range level {
			task := s.graph.Tasks[id]

			if depFailed(task.Dependencies, failed) && !opts.ContinueOnError {
				mu.Lock()
				results = append(results, runner.Result{TaskID: id, Status: runner.StatusSkipped})
				failed[id] = true // propagate so this skip cascades to its own dependents
				mu.Unlock()
				continue
			}

			_ = sem.Acquire(ctx, 1)
			wg.Add(1)
			go func(task domain.ResolvedTask) {
				defer wg.Done()
				defer sem.Release(1)

				res := s.runner.Run(ctx, task, runner.Options{
					ContextEnv:   opts.ContextEnv,
					WorkspaceEnv: task.WorkspaceEnv,
					ExtraArgs:    opts.ExtraArgs,
					IsMainTask:   rootSet[task.ID],
					Force:        opts.Force,
					DryRun:       opts.DryRun,
				})

				mu.Lock()
				results = append(results, res)
				switch res.Status {
				case runner.StatusSuccess, runner.StatusCached:
					completed[task.ID] = true
				case runner.StatusFailed:
					failed[task.ID] = true
					anyFailed = true
				}
				mu.Unlock()
			}(task)
		}
		wg.Wait()
	}

	success := true
	for _, r := range results {
		if r.Status == runner.StatusFailed {
			success = false
			break
		}
	}

	return RunResult{Success: success, Results: results}
}

// depFailed reports whether any of deps is in failed. Run also records a
// task skipped for a failed dependency in failed, so the skip cascades to
// that task's own dependents in later levels.
func depFailed(deps []domain.TaskId, failed map[domain.TaskId]bool) bool {
	for _, d := range deps {
		if failed[d] {
			return true
		}
	}
	return false
}

// Summarize aggregates results into a ports.Summary-shaped count (spec §6).
func Summarize(results []runner.Result, duration time.Duration) (success, failedN, cached, skipped int) {
	for _, r := range results {
		switch r.Status {
		case runner.StatusSuccess:
			success++
		case runner.StatusFailed:
			failedN++
		case runner.StatusCached:
			cached++
		case runner.StatusSkipped:
			skipped++
		}
	}
	return
}

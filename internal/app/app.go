// Package app wires the engine (graph builder, scheduler, runner, cache,
// cleanup) against one loaded WorkspaceModel and exposes the operations the
// CLI layer calls: run, list, clean, and resolving target names against a
// model (spec §1, §4).
package app

import (
	"context"
	"path/filepath"
	"runtime"
	"time"

	"github.com/maastrich/cockpit/internal/adapters/cas"
	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/core/ports"
	"github.com/maastrich/cockpit/internal/engine/cleanup"
	"github.com/maastrich/cockpit/internal/engine/graphbuilder"
	"github.com/maastrich/cockpit/internal/engine/runner"
	"github.com/maastrich/cockpit/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App ties the Graft-registered singleton adapters (config loader, logger,
// hasher, resolver, process supervisor, tracer) to the request-scoped
// engine components (cache store, runner, scheduler) that need a monorepo
// root or a per-run TaskGraph that don't exist at Graft-registration time.
type App struct {
	ConfigLoader ports.ConfigLoader
	Logger       ports.Logger
	Resolver     ports.InputResolver
	Hasher       ports.Hasher
	Supervisor   ports.ProcessSupervisor
	Tracer       ports.Tracer
}

// New builds an App from its Graft-registered collaborators.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	resolver ports.InputResolver,
	hasher ports.Hasher,
	supervisor ports.ProcessSupervisor,
	tracer ports.Tracer,
) *App {
	return &App{
		ConfigLoader: loader,
		Logger:       log,
		Resolver:     resolver,
		Hasher:       hasher,
		Supervisor:   supervisor,
		Tracer:       tracer,
	}
}

// RunOptions configures one invocation of Run.
type RunOptions struct {
	Concurrency     int64
	ContinueOnError bool
	Force           bool
	DryRun          bool
	ExtraArgs       []string
	ContextEnv      map[string]string
	All             bool
}

// load resolves the WorkspaceModel from cwd and the content-addressed cache
// store rooted under it. Both need the monorepo root the config loader
// discovers at request time, so neither is a Graft singleton (spec §4.5,
// §6).
func (a *App) load(cwd string) (*domain.WorkspaceModel, *cas.Store, error) {
	model, err := a.ConfigLoader.Load(cwd)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load configuration")
	}
	cacheRoot := filepath.Join(model.RootPath, domain.DefaultCachePath())
	store, err := cas.NewStore(cacheRoot, a.Resolver)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to open cache store")
	}
	return model, store, nil
}

// resolveTargets turns CLI-given target names into root TaskIds. A bare
// name resolves against every workspace declaring it; a "workspace:name"
// reference resolves to that exact id.
func resolveTargets(model *domain.WorkspaceModel, names []string) ([]domain.TaskId, error) {
	var roots []domain.TaskId
	for _, name := range names {
		if ws, task, ok := splitQualified(name); ok {
			id := domain.CreateID(ws, task)
			if _, found := model.LookupTask(id); !found {
				return nil, zerr.With(domain.ErrTaskNotFound, "task", id)
			}
			roots = append(roots, id)
			continue
		}
		ids := model.TaskIDsForName(name)
		if len(ids) == 0 {
			return nil, zerr.With(domain.ErrTaskNotFound, "task", name)
		}
		roots = append(roots, ids...)
	}
	return roots, nil
}

func splitQualified(name string) (ws, task string, ok bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			return name[:i], name[i+1:], true
		}
	}
	return "", "", false
}

// Run loads the configuration rooted at cwd, builds the graph for
// targetNames (or the full graph when opts.All is set), and drives it
// through the scheduler (spec §1, §4.8).
func (a *App) Run(ctx context.Context, cwd string, targetNames []string, opts RunOptions) (scheduler.RunResult, error) {
	model, store, err := a.load(cwd)
	if err != nil {
		return scheduler.RunResult{}, err
	}

	var graph *domain.TaskGraph
	if opts.All {
		graph, err = graphbuilder.BuildFull(model)
	} else {
		if len(targetNames) == 0 {
			return scheduler.RunResult{}, domain.ErrNoRootTasks
		}
		var roots []domain.TaskId
		roots, err = resolveTargets(model, targetNames)
		if err == nil {
			graph, err = graphbuilder.Build(model, roots)
		}
	}
	if err != nil {
		return scheduler.RunResult{}, zerr.Wrap(err, "failed to build task graph")
	}

	r := runner.New(a.Supervisor, a.Hasher, store, a.Logger)
	sched := scheduler.New(graph, r)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = int64(runtime.NumCPU())
	}

	start := time.Now()
	result := sched.Run(ctx, scheduler.Options{
		Concurrency:     concurrency,
		ContinueOnError: opts.ContinueOnError,
		Force:           opts.Force,
		DryRun:          opts.DryRun,
		ExtraArgs:       opts.ExtraArgs,
		ContextEnv:      opts.ContextEnv,
	})
	success, failed, cached, skipped := scheduler.Summarize(result.Results, time.Since(start))
	a.Logger.Summary(ports.Summary{
		Success:  success,
		Failed:   failed,
		Cached:   cached,
		Skipped:  skipped,
		Duration: time.Since(start).Milliseconds(),
	})
	if !result.Success {
		return result, domain.ErrRunFailed
	}
	return result, nil
}

// List returns every task id reachable from the loaded model, sorted, for
// the `cockpit list` command.
func (a *App) List(cwd string) ([]domain.TaskId, error) {
	model, _, err := a.load(cwd)
	if err != nil {
		return nil, err
	}
	return model.AllTaskIDs(), nil
}

// Clean runs the cleanup engine against one or every task's declared
// cleanup patterns (spec §4.9).
func (a *App) Clean(cwd string, targetNames []string, all bool, dryRun bool) ([]cleanup.Result, error) {
	model, store, err := a.load(cwd)
	if err != nil {
		return nil, err
	}

	var ids []domain.TaskId
	if all {
		ids = model.AllTaskIDs()
	} else {
		ids, err = resolveTargets(model, targetNames)
		if err != nil {
			return nil, err
		}
	}

	engine := cleanup.New(a.Resolver, store)
	var results []cleanup.Result
	for _, id := range ids {
		def, ok := model.LookupTask(id)
		if !ok {
			continue
		}
		ws, _ := domain.ParseID(id)
		workingDir := model.WorkspacePath(ws)
		if def.Cwd != "" {
			workingDir = filepath.Join(workingDir, def.Cwd)
		}
		res, err := engine.Clean(id, def, workingDir, dryRun)
		if err != nil {
			return results, zerr.With(zerr.Wrap(err, "failed to clean task"), "task", id)
		}
		results = append(results, res)
	}
	return results, nil
}

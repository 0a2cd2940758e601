// Package graphbuilder materializes a domain.TaskGraph from a
// domain.WorkspaceModel and a set of requested roots (spec §4.2): a
// breadth-first closure over dependency references, followed by two calls
// into internal/engine/toposort for executionOrder and parallelLevels.
package graphbuilder

import (
	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/engine/toposort"
	"go.trai.ch/zerr"
)

// Build runs the BFS closure from roots against model and returns the
// resulting TaskGraph, or a TaskNotFound/WorkspaceNotFound/CyclicDependency
// error.
func Build(model *domain.WorkspaceModel, roots []domain.TaskId) (*domain.TaskGraph, error) {
	if len(roots) == 0 {
		return nil, domain.ErrNoRootTasks
	}

	tasks := map[domain.TaskId]domain.ResolvedTask{}
	queue := append([]domain.TaskId{}, roots...)
	seen := map[domain.TaskId]bool{}
	var visitOrder []domain.TaskId

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		visitOrder = append(visitOrder, id)

		ws, name := domain.ParseID(id)
		def, ok := model.LookupTask(id)
		if !ok {
			if _, wsExists := model.TaskConfigs[ws]; !wsExists && ws != "" {
				return nil, zerr.With(domain.ErrWorkspaceNotFound, "workspace", ws)
			}
			return nil, zerr.With(domain.ErrTaskNotFound, "task", id)
		}

		deps, err := resolveDependencies(model, ws, def)
		if err != nil {
			return nil, err
		}

		tasks[id] = domain.ResolvedTask{
			ID:           id,
			WorkspaceID:  ws,
			Name:         name,
			Definition:   def,
			Dependencies: deps,
			WorkingDir:   workingDir(model, ws, def),
			WorkspaceEnv: model.TaskConfigs[ws].Env,
		}

		for _, dep := range deps {
			if !seen[dep] {
				queue = append(queue, dep)
			}
		}
	}

	return finish(tasks, visitOrder, roots)
}

// BuildForName builds the graph rooted at the given task name across every
// workspace that declares it (spec §4.2's second public constructor).
func BuildForName(model *domain.WorkspaceModel, name domain.TaskName) (*domain.TaskGraph, error) {
	roots := model.TaskIDsForName(name)
	if len(roots) == 0 {
		return nil, zerr.With(domain.ErrTaskNotFound, "task", name)
	}
	return Build(model, roots)
}

// BuildFull builds the graph containing every task across every workspace.
// Dependency ids absent from the closed map (unresolved externals) are
// filtered out so they become level-0 nodes rather than failing resolution
// (spec §4.2's third public constructor).
func BuildFull(model *domain.WorkspaceModel) (*domain.TaskGraph, error) {
	roots := model.AllTaskIDs()
	if len(roots) == 0 {
		return nil, domain.ErrNoRootTasks
	}

	tasks := map[domain.TaskId]domain.ResolvedTask{}
	for _, id := range roots {
		ws, name := domain.ParseID(id)
		def, _ := model.LookupTask(id)
		deps, err := resolveDependencies(model, ws, def)
		if err != nil {
			return nil, err
		}
		tasks[id] = domain.ResolvedTask{
			ID:           id,
			WorkspaceID:  ws,
			Name:         name,
			Definition:   def,
			Dependencies: deps,
			WorkingDir:   workingDir(model, ws, def),
			WorkspaceEnv: model.TaskConfigs[ws].Env,
		}
	}

	// Filter dependencies to ids present in the closed map.
	for id, t := range tasks {
		var filtered []domain.TaskId
		for _, dep := range t.Dependencies {
			if _, ok := tasks[dep]; ok {
				filtered = append(filtered, dep)
			}
		}
		t.Dependencies = filtered
		tasks[id] = t
	}

	return finish(tasks, roots, roots)
}

func resolveDependencies(model *domain.WorkspaceModel, currentWs domain.WorkspaceId, def domain.TaskDefinition) ([]domain.TaskId, error) {
	var deps []domain.TaskId
	for _, ref := range def.DependsOn {
		ws, name, optional := ref.Resolve(currentWs)
		id := domain.CreateID(ws, name)
		if _, ok := model.LookupTask(id); !ok {
			if optional {
				continue
			}
			return nil, zerr.With(domain.ErrTaskNotFound, "task", id)
		}
		deps = append(deps, id)
	}
	return deps, nil
}

func workingDir(model *domain.WorkspaceModel, ws domain.WorkspaceId, def domain.TaskDefinition) string {
	base := model.WorkspacePath(ws)
	if def.Cwd == "" {
		return base
	}
	return base + "/" + def.Cwd
}

func finish(tasks map[domain.TaskId]domain.ResolvedTask, ids []domain.TaskId, roots []domain.TaskId) (*domain.TaskGraph, error) {
	depsOf := func(id domain.TaskId) []domain.TaskId { return tasks[id].Dependencies }

	order, err := toposort.Order(ids, depsOf)
	if err != nil {
		return nil, err
	}
	levels, err := toposort.ParallelLevels(ids, depsOf)
	if err != nil {
		return nil, err
	}

	return domain.NewTaskGraph(tasks, order, levels, roots), nil
}

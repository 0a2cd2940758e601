package domain

import "iter"

// TaskGraph is the closed set of ResolvedTasks reached from one or more
// roots, topologically ordered and partitioned into parallel levels
// (spec §3). It is produced by the graph builder (§4.2) and is immutable
// thereafter; the scheduler only reads it.
type TaskGraph struct {
	Tasks          map[TaskId]ResolvedTask
	ExecutionOrder []TaskId
	ParallelLevels [][]TaskId
	RootTasks      []TaskId
}

// NewTaskGraph builds a TaskGraph from its four invariant-bearing fields.
// Callers (the graph builder) are responsible for having already validated
// those invariants (spec §3):
//   - every id in ExecutionOrder appears in Tasks and vice versa
//   - every dependency of every task in Tasks is itself in Tasks
//   - dependencies precede dependents in ExecutionOrder
//   - ParallelLevels partitions Tasks, each level depending only on earlier ones
func NewTaskGraph(
	tasks map[TaskId]ResolvedTask,
	executionOrder []TaskId,
	parallelLevels [][]TaskId,
	rootTasks []TaskId,
) *TaskGraph {
	return &TaskGraph{
		Tasks:          tasks,
		ExecutionOrder: executionOrder,
		ParallelLevels: parallelLevels,
		RootTasks:      rootTasks,
	}
}

// Task looks up a resolved task by id.
func (g *TaskGraph) Task(id TaskId) (ResolvedTask, bool) {
	t, ok := g.Tasks[id]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// Walk returns an iterator over tasks in execution order.
func (g *TaskGraph) Walk() iter.Seq[ResolvedTask] {
	return func(yield func(ResolvedTask) bool) {
		for _, id := range g.ExecutionOrder {
			t, ok := g.Tasks[id]
			if !ok {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Dependents returns the ids of tasks that directly depend on id. It is
// O(n) in the number of tasks; callers that need this repeatedly (the
// scheduler) should build a reverse-edge index once instead.
func (g *TaskGraph) Dependents(id TaskId) []TaskId {
	var out []TaskId
	for _, t := range g.Tasks {
		for _, dep := range t.Dependencies {
			if dep == id {
				out = append(out, t.ID)
				break
			}
		}
	}
	return out
}

// DependentsIndex precomputes id -> direct dependents for the whole graph,
// used by the scheduler to avoid the O(n) scan in Dependents per task.
func (g *TaskGraph) DependentsIndex() map[TaskId][]TaskId {
	idx := make(map[TaskId][]TaskId, len(g.Tasks))
	for _, t := range g.Tasks {
		for _, dep := range t.Dependencies {
			idx[dep] = append(idx[dep], t.ID)
		}
	}
	return idx
}

// TransitiveDependents returns every task id reachable by following
// dependents edges from id (inclusive of nothing but id's descendants),
// used by the scheduler's failure cascade (spec §4.8, testable property 7).
func (g *TaskGraph) TransitiveDependents(id TaskId) map[TaskId]bool {
	idx := g.DependentsIndex()
	out := make(map[TaskId]bool)
	queue := []TaskId{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range idx[cur] {
			if !out[dep] {
				out[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return out
}

// Package toposort computes topological order, parallel levels, and cycle
// witnesses over a dependency map (spec §4.3). It is deliberately separate
// from domain.TaskGraph: the graph builder calls it twice, once for
// executionOrder and once for parallelLevels, and the scheduler never calls
// it at all — unlike the teacher, which inlines DFS cycle detection directly
// into its Graph.Validate().
package toposort

import (
	"github.com/maastrich/cockpit/internal/core/domain"
	"go.trai.ch/zerr"
)

// Order computes a Kahn topological order over ids using deps to look up
// each node's dependency list. On success the result's length equals
// len(ids); if the graph has a cycle, it returns a CyclicDependency error
// decorated with a DFS-witness cycle.
func Order(ids []domain.TaskId, deps func(domain.TaskId) []domain.TaskId) ([]domain.TaskId, error) {
	set := make(map[domain.TaskId]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	inDegree := make(map[domain.TaskId]int, len(ids))
	dependents := make(map[domain.TaskId][]domain.TaskId, len(ids))
	for _, id := range ids {
		inDegree[id] = 0
	}
	for _, id := range ids {
		for _, dep := range deps(id) {
			if !set[dep] {
				continue // outside the node set; ignored for ordering
			}
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var queue []domain.TaskId
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]domain.TaskId, 0, len(ids))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, dep := range dependents[cur] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(ids) {
		cycle := findCycle(ids, deps, set)
		return nil, zerr.With(domain.ErrCyclicDependency, "cycle", cycle)
	}
	return order, nil
}

// ParallelLevels partitions ids into maximal antichains: level k depends
// only on levels < k (spec §4.3's iterative fixed-point algorithm).
func ParallelLevels(ids []domain.TaskId, deps func(domain.TaskId) []domain.TaskId) ([][]domain.TaskId, error) {
	set := make(map[domain.TaskId]bool, len(ids))
	remaining := make(map[domain.TaskId]bool, len(ids))
	for _, id := range ids {
		set[id] = true
		remaining[id] = true
	}
	completed := make(map[domain.TaskId]bool, len(ids))

	var levels [][]domain.TaskId
	for len(remaining) > 0 {
		var level []domain.TaskId
		for _, id := range ids {
			if !remaining[id] {
				continue
			}
			ready := true
			for _, dep := range deps(id) {
				if !set[dep] {
					continue
				}
				if !completed[dep] {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, id)
			}
		}
		if len(level) == 0 {
			cycle := findCycle(ids, deps, set)
			return nil, zerr.With(domain.ErrCyclicDependency, "cycle", cycle)
		}
		levels = append(levels, level)
		for _, id := range level {
			completed[id] = true
			delete(remaining, id)
		}
	}
	return levels, nil
}

// findCycle runs a DFS from each node, tracking the recursion stack and
// current path. When a back-edge into the stack is found it returns the
// path slice from the target node to the current node, closed by repeating
// the target (spec §4.3a).
func findCycle(ids []domain.TaskId, deps func(domain.TaskId) []domain.TaskId, set map[domain.TaskId]bool) []domain.TaskId {
	visited := make(map[domain.TaskId]bool, len(ids))
	onStack := make(map[domain.TaskId]bool, len(ids))
	var path []domain.TaskId

	var visit func(id domain.TaskId) []domain.TaskId
	visit = func(id domain.TaskId) []domain.TaskId {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, dep := range deps(id) {
			if !set[dep] {
				continue
			}
			if onStack[dep] {
				for i, node := range path {
					if node == dep {
						cycle := append([]domain.TaskId{}, path[i:]...)
						return append(cycle, dep)
					}
				}
			}
			if !visited[dep] {
				if found := visit(dep); found != nil {
					return found
				}
			}
		}

		path = path[:len(path)-1]
		onStack[id] = false
		return nil
	}

	for _, id := range ids {
		if !visited[id] {
			if cycle := visit(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

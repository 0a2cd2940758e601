// Package cleanup implements the cleanup engine (spec §4.9): expand a
// task's cleanup patterns (or its declared outputs), delete the resolved
// paths, and invalidate the task's cache entry on any deletion.
package cleanup

import (
	"os"

	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/core/ports"
)

// PathError pairs a path with the error encountered removing it.
type PathError struct {
	Path string
	Err  error
}

// Result is the outcome of one cleanup invocation.
type Result struct {
	Deleted []string
	Errors  []PathError
}

// Engine wires the resolver and cache store the cleanup operation needs.
type Engine struct {
	Resolver ports.InputResolver
	Cache    ports.CacheStore
}

// New builds a cleanup Engine.
func New(resolver ports.InputResolver, cache ports.CacheStore) *Engine {
	return &Engine{Resolver: resolver, Cache: cache}
}

// alwaysExcluded mirrors spec §4.9's cleanup-time exclusion set, narrower
// than the input fingerprinter's (no dist/.cache pruning here).
var alwaysExcluded = []string{"node_modules", ".git"}

// Clean resolves task's cleanup patterns under workspacePath and deletes
// the matched paths. On a non-dry-run invocation that deletes at least one
// path, it invalidates the task's entire cache entry.
func (e *Engine) Clean(taskID string, task domain.TaskDefinition, workspacePath string, dryRun bool) (Result, error) {
	patterns := cleanupPatterns(task)
	if len(patterns) == 0 {
		return Result{}, nil
	}

	paths, err := resolvePaths(e.Resolver, patterns, workspacePath)
	if err != nil {
		return Result{}, err
	}

	var result Result
	if dryRun {
		result.Deleted = paths
		return result, nil
	}

	for _, p := range paths {
		full := workspacePath + "/" + p
		info, statErr := os.Lstat(full)
		if statErr != nil {
			result.Errors = append(result.Errors, PathError{Path: p, Err: statErr})
			continue
		}
		var rmErr error
		if info.IsDir() {
			rmErr = os.RemoveAll(full)
		} else {
			rmErr = os.Remove(full)
		}
		if rmErr != nil {
			result.Errors = append(result.Errors, PathError{Path: p, Err: rmErr})
			continue
		}
		result.Deleted = append(result.Deleted, p)
	}

	if len(result.Deleted) > 0 {
		_ = e.Cache.Invalidate(taskID, "")
	}

	return result, nil
}

func cleanupPatterns(def domain.TaskDefinition) []string {
	if def.Cleanup.UseOutputs {
		return def.Outputs
	}
	return def.Cleanup.Patterns
}

// resolvePaths expands glob patterns and, for non-matching patterns,
// attempts direct-path resolution, deduplicating the result (spec §4.9).
func resolvePaths(resolver ports.InputResolver, patterns []string, root string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	for _, pattern := range patterns {
		matches, err := resolver.ResolvePaths([]string{pattern}, root, alwaysExcluded)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			for _, m := range matches {
				if !seen[m] {
					seen[m] = true
					out = append(out, m)
				}
			}
			continue
		}
		if _, err := os.Lstat(root + "/" + pattern); err == nil {
			if !seen[pattern] {
				seen[pattern] = true
				out = append(out, pattern)
			}
		}
	}
	return out, nil
}

package domain

import "go.trai.ch/zerr"

// Error kinds surfaced by the core (spec §7). Callers distinguish them with
// errors.Is against these sentinels; call sites decorate them with
// zerr.With(...) for structured context (task id, cycle path, exit code...).
var (
	// ErrTaskNotFound is raised when a graph reference resolves to a task id
	// that has no TaskDefinition in the workspace model.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrWorkspaceNotFound is raised when a reference names a workspace id
	// absent from the workspace model.
	ErrWorkspaceNotFound = zerr.New("workspace not found")

	// ErrCyclicDependency is raised when the dependency graph contains a
	// cycle; decorated with the cycle's node list.
	ErrCyclicDependency = zerr.New("cyclic dependency")

	// ErrTaskExecution is raised when a task's process exits non-zero
	// without allowFailure set.
	ErrTaskExecution = zerr.New("task execution failed")

	// ErrTaskTimeout is raised when a task's process is killed after
	// exceeding its timeout.
	ErrTaskTimeout = zerr.New("task timed out")

	// ErrNoRootTasks is raised when a graph-build request names no roots.
	ErrNoRootTasks = zerr.New("no root tasks specified")

	// ErrConfigNotFound is the caller's responsibility per spec §7 — kept
	// here only so the config adapter and its callers share one sentinel.
	ErrConfigNotFound = zerr.New("configuration not found")

	// ErrConfigValidation mirrors ErrConfigNotFound's status: raised by the
	// config adapter, not by the core, but shared for errors.Is matching.
	ErrConfigValidation = zerr.New("configuration invalid")

	// ErrRunFailed is returned by the application layer when a run completes
	// (every task got exactly one result) but at least one task failed. The
	// CLI layer matches it with errors.Is to set exit code 1 without
	// re-printing an error, since the logger already reported the failure.
	ErrRunFailed = zerr.New("run failed")
)

package ports

import "github.com/maastrich/cockpit/internal/core/domain"

// Hasher computes the deterministic input fingerprint for a task (spec
// §4.4): a SHA-256 digest over the canonical command, optional extra args,
// env, and the input file set's metadata, truncated to 16 hex chars.
type Hasher interface {
	// ComputeInputHash hashes task's definition against its resolved
	// working directory. extraArgs is fed into the digest only when the
	// task is a main/root task of the current run; callers pass nil
	// otherwise.
	ComputeInputHash(task domain.ResolvedTask, workspacePath string, extraArgs []string) (string, error)
}

package ports

import "github.com/maastrich/cockpit/internal/core/domain"

// CacheStore is the content-addressed cache's contract (spec §4.5). All
// methods are safe for concurrent use by multiple goroutines within one
// process; cross-process safety is explicitly not guaranteed (spec §9).
type CacheStore interface {
	// Lookup loads the task's registry and the manifest's active hash,
	// treating a missing or corrupt file as empty.
	Lookup(taskID, inputHash string) (domain.CacheLookup, error)

	// Has is a convenience wrapper over Lookup.
	Has(taskID, inputHash string) (bool, error)

	// HasOutputsOnDisk verifies every cached file of the entry exists under
	// workspacePath. An entry with zero cached files is vacuously true.
	HasOutputsOnDisk(taskID, inputHash, workspacePath string) (bool, error)

	// RestoreOutputs copies cached files back into the workspace, creating
	// intermediate directories as needed. Returns the count restored, or -1
	// if the entry has no cached files or its outputs directory is absent.
	RestoreOutputs(taskID, inputHash, workspacePath string) (int, error)

	// Store atomically replaces any existing hash directory for taskID,
	// expands outputs against workspacePath, copies matched files in,
	// writes the chunk log, and marks the hash active in the manifest.
	Store(req StoreRequest) error

	// Invalidate removes one hash's subtree and registry entry when hash is
	// non-empty, clearing the manifest entry if it pointed at that hash; with
	// an empty hash it removes the whole task directory and manifest entry.
	Invalidate(taskID, inputHash string) error

	// GetOutputChunks returns the captured stdout/stderr chunks for replay.
	GetOutputChunks(taskID, inputHash string) ([]domain.OutputChunk, error)

	Stats() (domain.CacheStats, error)
	ListEntries(taskID string) ([]domain.RegistryEntry, error)
	Clear() error
}

// StoreRequest bundles Store's arguments (spec §4.5).
type StoreRequest struct {
	TaskID        string
	InputHash     string
	Outputs       []string
	WorkspacePath string
	OutputChunks  []domain.OutputChunk
}

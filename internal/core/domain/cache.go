package domain

// CacheManifest records, per task id, the input hash currently materialized
// in the workspace (spec §3). Persisted as a single small file at
// .cockpit/.cache/manifest.json.
type CacheManifest struct {
	ActiveHash map[TaskId]string `json:"activeHash"`
}

// NewCacheManifest returns an empty manifest.
func NewCacheManifest() CacheManifest {
	return CacheManifest{ActiveHash: map[TaskId]string{}}
}

// TaskRegistry is one task's cache history, keyed by input hash (spec §3).
// Persisted per task at .cockpit/.cache/results/<safeTaskId>/registry.json.
type TaskRegistry struct {
	Entries map[string]RegistryEntry `json:"entries"`
}

// NewTaskRegistry returns an empty registry.
func NewTaskRegistry() TaskRegistry {
	return TaskRegistry{Entries: map[string]RegistryEntry{}}
}

// RegistryEntry is the source of truth for what was cached under one input
// hash: the output glob patterns that were in effect and the concrete files
// captured when they were last expanded (spec §3, §4.5).
type RegistryEntry struct {
	InputHash   string       `json:"inputHash"`
	Timestamp   string       `json:"timestamp"`
	Outputs     []string     `json:"outputs"`
	CachedFiles []CachedFile `json:"cachedFiles"`
}

// CachedFile is one file captured under a registry entry: its path relative
// to the workspace root and its size at capture time, used by
// hasOutputsOnDisk to verify presence without reading content.
type CachedFile struct {
	RelativePath string `json:"relativePath"`
	Size         int64  `json:"size"`
}

// OutputChunk is one piece of captured stdout/stderr, tagged by stream, in
// the order the process supervisor's callbacks fired (spec §3, §5). A list
// of chunks preserves interleaving for faithful replay.
type OutputChunk struct {
	Stream string `json:"stream"` // "stdout" or "stderr"
	Data   string `json:"data"`
}

const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// CacheLookup is the result of probing the registry and manifest for a given
// (taskId, inputHash) pair (spec §4.5's lookup contract).
type CacheLookup struct {
	Found    bool
	Entry    RegistryEntry
	IsActive bool
}

// CacheStats summarizes the whole store, as returned by the cache store's
// Stats method (spec §4.5).
type CacheStats struct {
	Tasks        int
	TotalEntries int
}

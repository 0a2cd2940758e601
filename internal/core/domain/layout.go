package domain

import "path/filepath"

// On-disk layout constants for a monorepo's .cockpit directory (spec §4.5,
// §6).
const (
	CockpitDirName  = ".cockpit"
	CacheDirName    = ".cache"
	ResultsDirName  = "results"
	ManifestFile    = "manifest.json"
	RegistryFile    = "registry.json"
	OutputsDirName  = "outputs"
	OutputChunkFile = "output.json"
	ConfigFileName  = "cockpit.yaml"
	WorkFileName    = "cockpit.work.yaml"

	DirPerm         = 0o750
	FilePerm        = 0o644
	PrivateFilePerm = 0o600
)

// GlobExcludeDirs is the directory-name exclusion set of the input
// fingerprinter (spec §4.4): node_modules and .git are always excluded;
// dist and .cache are excluded to prevent a task from self-invalidating by
// declaring its own cache or build output as an input. The cache store's
// output-glob expansion excludes only node_modules and .git.
var GlobExcludeDirs = []string{"node_modules", ".git", "dist", ".cache"}

// DefaultCachePath returns the cache root relative to a monorepo root:
// .cockpit/.cache.
func DefaultCachePath() string {
	return filepath.Join(CockpitDirName, CacheDirName)
}

// DefaultManifestPath returns the manifest's path relative to a monorepo root.
func DefaultManifestPath() string {
	return filepath.Join(DefaultCachePath(), ManifestFile)
}

// TaskResultsDir returns a task's results directory relative to a monorepo
// root, with ':' replaced per SafeDirName.
func TaskResultsDir(taskID string) string {
	return filepath.Join(DefaultCachePath(), ResultsDirName, SafeDirName(taskID))
}

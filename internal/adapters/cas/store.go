// Package cas implements the content-addressed cache store (spec §4.5):
// a manifest of each task's currently active input hash, a per-task
// registry of every hash it has ever produced, and per-hash output/chunk
// directories. Grounded on the teacher's flat JSON BuildInfoStore — the
// load-treats-missing-as-empty, mutex-guarded load/save pattern carries
// over directly — generalized from one flat map to the manifest+registry
// split the spec requires.
package cas

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore under a root directory laid out per
// spec §4.5: manifest.json at the root, results/<safeTaskId>/registry.json
// and results/<safeTaskId>/<inputHash>/{outputs/,output.json} per task.
type Store struct {
	root     string
	resolver ports.InputResolver
	mu       sync.Mutex
}

// NewStore creates a Store rooted at root (typically
// <monorepoRoot>/.cockpit/.cache). resolver expands a task's output globs
// with the same doublestar matcher it uses for input globs, so a pattern
// like "dist/**" is captured with "**" semantics rather than a single path
// segment per "*".
func NewStore(root string, resolver ports.InputResolver) (*Store, error) {
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, "failed to create cache root")
	}
	return &Store{root: filepath.Clean(root), resolver: resolver}, nil
}

func (s *Store) manifestPath() string {
	return filepath.Join(s.root, domain.ManifestFile)
}

func (s *Store) taskDir(taskID string) string {
	return filepath.Join(s.root, domain.ResultsDirName, domain.SafeDirName(taskID))
}

func (s *Store) registryPath(taskID string) string {
	return filepath.Join(s.taskDir(taskID), domain.RegistryFile)
}

func (s *Store) hashDir(taskID, inputHash string) string {
	return filepath.Join(s.taskDir(taskID), inputHash)
}

// loadManifest reads manifest.json, treating a missing or corrupt file as
// empty (spec §4.5 invariants).
func (s *Store) loadManifest() domain.CacheManifest {
	data, err := os.ReadFile(s.manifestPath()) //nolint:gosec // path built from trusted root
	if err != nil {
		return domain.NewCacheManifest()
	}
	var m domain.CacheManifest
	if err := json.Unmarshal(data, &m); err != nil || m.ActiveHash == nil {
		return domain.NewCacheManifest()
	}
	return m
}

func (s *Store) saveManifest(m domain.CacheManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal manifest")
	}
	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create cache root")
	}
	return os.WriteFile(s.manifestPath(), data, domain.FilePerm)
}

// loadRegistry reads a task's registry.json, treating missing/corrupt as empty.
func (s *Store) loadRegistry(taskID string) domain.TaskRegistry {
	data, err := os.ReadFile(s.registryPath(taskID)) //nolint:gosec // path built from trusted root
	if err != nil {
		return domain.NewTaskRegistry()
	}
	var r domain.TaskRegistry
	if err := json.Unmarshal(data, &r); err != nil || r.Entries == nil {
		return domain.NewTaskRegistry()
	}
	return r
}

func (s *Store) saveRegistry(taskID string, r domain.TaskRegistry) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal registry")
	}
	if err := os.MkdirAll(s.taskDir(taskID), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create task cache dir")
	}
	return os.WriteFile(s.registryPath(taskID), data, domain.FilePerm)
}

// Lookup implements the lookup(taskId, inputHash) contract.
func (s *Store) Lookup(taskID, inputHash string) (domain.CacheLookup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry := s.loadRegistry(taskID)
	entry, found := registry.Entries[inputHash]
	if !found {
		return domain.CacheLookup{}, nil
	}
	manifest := s.loadManifest()
	isActive := manifest.ActiveHash[taskID] == inputHash
	return domain.CacheLookup{Found: true, Entry: entry, IsActive: isActive}, nil
}

// Has is a convenience wrapper over Lookup.
func (s *Store) Has(taskID, inputHash string) (bool, error) {
	lookup, err := s.Lookup(taskID, inputHash)
	if err != nil {
		return false, err
	}
	return lookup.Found, nil
}

// HasOutputsOnDisk verifies every cached file of the entry exists under
// workspacePath. An entry with zero cached files is vacuously true.
func (s *Store) HasOutputsOnDisk(taskID, inputHash, workspacePath string) (bool, error) {
	lookup, err := s.Lookup(taskID, inputHash)
	if err != nil || !lookup.Found {
		return false, err
	}
	if len(lookup.Entry.CachedFiles) == 0 {
		return true, nil
	}
	for _, f := range lookup.Entry.CachedFiles {
		if _, err := os.Stat(filepath.Join(workspacePath, f.RelativePath)); err != nil {
			return false, nil
		}
	}
	return true, nil
}

// RestoreOutputs copies cached files back into the workspace. Returns -1 if
// the entry has no cached files or its outputs directory is missing.
func (s *Store) RestoreOutputs(taskID, inputHash, workspacePath string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry := s.loadRegistry(taskID)
	entry, found := registry.Entries[inputHash]
	if !found || len(entry.CachedFiles) == 0 {
		return -1, nil
	}

	outputsDir := filepath.Join(s.hashDir(taskID, inputHash), domain.OutputsDirName)
	if _, err := os.Stat(outputsDir); err != nil {
		return -1, nil
	}

	restored := 0
	for _, f := range entry.CachedFiles {
		src := filepath.Join(outputsDir, f.RelativePath)
		dst := filepath.Join(workspacePath, f.RelativePath)
		if err := copyFile(src, dst); err != nil {
			continue // per-file I/O errors are swallowed (spec §7)
		}
		restored++
	}

	if restored > 0 {
		manifest := s.loadManifest()
		manifest.ActiveHash[taskID] = inputHash
		_ = s.saveManifest(manifest)
	}

	return restored, nil
}

// Store atomically replaces any existing hash directory, captures matched
// output files and the chunk log, upserts the registry, and marks the
// manifest's active hash.
func (s *Store) Store(req ports.StoreRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hashDir := s.hashDir(req.TaskID, req.InputHash)
	_ = os.RemoveAll(hashDir)

	outputsDir := filepath.Join(hashDir, domain.OutputsDirName)
	if err := os.MkdirAll(outputsDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create outputs dir")
	}

	outputs, err := s.expandOutputs(req.Outputs, req.WorkspacePath)
	if err != nil {
		return zerr.Wrap(err, "failed to expand output globs")
	}

	var cachedFiles []domain.CachedFile
	for _, rel := range outputs {
		src := filepath.Join(req.WorkspacePath, rel)
		dst := filepath.Join(outputsDir, rel)
		info, statErr := os.Stat(src)
		if statErr != nil {
			continue
		}
		if err := copyFile(src, dst); err != nil {
			continue
		}
		cachedFiles = append(cachedFiles, domain.CachedFile{RelativePath: rel, Size: info.Size()})
	}

	chunkData, err := json.Marshal(req.OutputChunks)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal output chunks")
	}
	if err := os.WriteFile(filepath.Join(hashDir, domain.OutputChunkFile), chunkData, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write output chunk log")
	}

	registry := s.loadRegistry(req.TaskID)
	registry.Entries[req.InputHash] = domain.RegistryEntry{
		InputHash:   req.InputHash,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Outputs:     req.Outputs,
		CachedFiles: cachedFiles,
	}
	if err := s.saveRegistry(req.TaskID, registry); err != nil {
		return err
	}

	manifest := s.loadManifest()
	manifest.ActiveHash[req.TaskID] = req.InputHash
	return s.saveManifest(manifest)
}

// Invalidate removes a specific hash subtree (clearing the manifest entry
// only if it pointed at that hash) or, with an empty hash, the whole task.
func (s *Store) Invalidate(taskID, inputHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	manifest := s.loadManifest()

	if inputHash == "" {
		_ = os.RemoveAll(s.taskDir(taskID))
		delete(manifest.ActiveHash, taskID)
		return s.saveManifest(manifest)
	}

	_ = os.RemoveAll(s.hashDir(taskID, inputHash))
	registry := s.loadRegistry(taskID)
	delete(registry.Entries, inputHash)
	if err := s.saveRegistry(taskID, registry); err != nil {
		return err
	}
	if manifest.ActiveHash[taskID] == inputHash {
		delete(manifest.ActiveHash, taskID)
	}
	return s.saveManifest(manifest)
}

// GetOutputChunks returns the captured stdout/stderr chunks for replay.
func (s *Store) GetOutputChunks(taskID, inputHash string) ([]domain.OutputChunk, error) {
	data, err := os.ReadFile(filepath.Join(s.hashDir(taskID, inputHash), domain.OutputChunkFile)) //nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read output chunk log")
	}
	var chunks []domain.OutputChunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, nil
	}
	return chunks, nil
}

// Stats summarizes the store across all tasks.
func (s *Store) Stats() (domain.CacheStats, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, domain.ResultsDirName))
	if err != nil {
		return domain.CacheStats{}, nil
	}
	stats := domain.CacheStats{Tasks: len(entries)}
	for _, e := range entries {
		registry := s.loadRegistryBySafeName(e.Name())
		stats.TotalEntries += len(registry.Entries)
	}
	return stats, nil
}

func (s *Store) loadRegistryBySafeName(safeName string) domain.TaskRegistry {
	data, err := os.ReadFile(filepath.Join(s.root, domain.ResultsDirName, safeName, domain.RegistryFile)) //nolint:gosec
	if err != nil {
		return domain.NewTaskRegistry()
	}
	var r domain.TaskRegistry
	if err := json.Unmarshal(data, &r); err != nil || r.Entries == nil {
		return domain.NewTaskRegistry()
	}
	return r
}

// ListEntries returns every registry entry for one task.
func (s *Store) ListEntries(taskID string) ([]domain.RegistryEntry, error) {
	registry := s.loadRegistry(taskID)
	out := make([]domain.RegistryEntry, 0, len(registry.Entries))
	for _, e := range registry.Entries {
		out = append(out, e)
	}
	return out, nil
}

// Clear removes the entire cache store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(s.root); err != nil {
		return zerr.Wrap(err, "failed to clear cache store")
	}
	return os.MkdirAll(s.root, domain.DirPerm)
}

// outputExcludeDirs prunes only node_modules and .git from output globs:
// unlike input hashing, dist and .cache are not excluded, since build
// outputs commonly live under dist.
var outputExcludeDirs = []string{"node_modules", ".git"}

// expandOutputs matches output glob patterns against workspacePath using the
// same doublestar "**" resolver as the input fingerprinter (spec §4.5).
func (s *Store) expandOutputs(patterns []string, workspacePath string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	return s.resolver.ResolvePaths(patterns, workspacePath, outputExcludeDirs)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return err
	}
	in, err := os.Open(src) //nolint:gosec // path built from trusted workspace root
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	out, err := os.Create(dst) //nolint:gosec // path built from trusted cache root
	if err != nil {
		return err
	}
	defer out.Close() //nolint:errcheck

	_, err = io.Copy(out, in)
	return err
}

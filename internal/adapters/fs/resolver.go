package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maastrich/cockpit/internal/core/ports"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements ports.InputResolver using doublestar, which gives
// "**" globstar semantics that filepath.Glob cannot express (spec §4.4's
// default "**/*" pattern, §9's glob-expansion contract).
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs expands patterns under root and returns metadata for every
// matched file, sorted by relative path (spec §4.4 step 4).
func (r *Resolver) ResolveInputs(patterns []string, root string, exclude []string) ([]ports.FileMeta, error) {
	paths, err := r.ResolvePaths(patterns, root, exclude)
	if err != nil {
		return nil, err
	}

	metas := make([]ports.FileMeta, 0, len(paths))
	for _, rel := range paths {
		info, err := os.Stat(filepath.Join(root, rel))
		if err != nil {
			continue // file vanished between glob and stat; skip rather than fail the whole run
		}
		metas = append(metas, ports.FileMeta{
			RelPath: rel,
			ModTime: info.ModTime().UTC().Format("2006-01-02T15:04:05.000000000Z"),
			Size:    info.Size(),
		})
	}
	return metas, nil
}

// ResolvePaths expands patterns under root, excluding any path component in
// exclude, and returns deduplicated, sorted relative paths.
func (r *Resolver) ResolvePaths(patterns []string, root string, exclude []string) ([]string, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}

	uniquePaths := map[string]bool{}
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			continue // malformed pattern; treat as no matches rather than aborting the run
		}
		for _, m := range matches {
			if isExcluded(m, excluded) {
				continue
			}
			info, statErr := os.Stat(filepath.Join(root, m))
			if statErr != nil || info.IsDir() {
				continue
			}
			uniquePaths[m] = true
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for p := range uniquePaths {
		result = append(result, p)
	}
	sort.Strings(result)
	return result, nil
}

func isExcluded(relPath string, excluded map[string]bool) bool {
	for _, segment := range strings.Split(filepath.ToSlash(relPath), "/") {
		if excluded[segment] {
			return true
		}
	}
	return false
}

package ports

// FileMeta is one glob-matched file's metadata, sufficient for the
// metadata-only input fingerprint (spec §4.4): no content is read.
type FileMeta struct {
	RelPath string
	ModTime string // ISO-8601
	Size    int64
}

// InputResolver expands glob patterns against a root directory (spec §4.4,
// §4.9, §9's glob-expansion contract). Exclude is the complete set of
// directory names to prune; the resolver adds no exclusions of its own, so
// callers pass node_modules/.git (and dist/.cache where they need the
// input-hashing exclusions) explicitly.
type InputResolver interface {
	// ResolveInputs expands patterns under root, returning metadata for
	// every matched file in sorted relative-path order.
	ResolveInputs(patterns []string, root string, exclude []string) ([]FileMeta, error)

	// ResolvePaths expands patterns under root like ResolveInputs but
	// returns bare relative paths, used by the cleanup engine which only
	// needs existence and identity, not metadata.
	ResolvePaths(patterns []string, root string, exclude []string) ([]string, error)
}

package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maastrich/cockpit/internal/adapters/fs"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
}

func TestResolver_ResolvePaths_Globstar(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/main.go":           "package main",
		"src/nested/util.go":    "package nested",
		"node_modules/pkg/a.js": "x",
		".git/config":           "y",
		"README.md":             "z",
	})

	r := fs.NewResolver()
	paths, err := r.ResolvePaths([]string{"**/*"}, root, []string{"node_modules", ".git"})
	require.NoError(t, err)
	require.Contains(t, paths, "src/main.go")
	require.Contains(t, paths, "src/nested/util.go")
	require.Contains(t, paths, "README.md")
	require.NotContains(t, paths, "node_modules/pkg/a.js")
}

func TestResolver_ResolveInputs_ReturnsMetadata(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "hello"})

	r := fs.NewResolver()
	metas, err := r.ResolveInputs([]string{"*.txt"}, root, nil)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	require.Equal(t, "a.txt", metas[0].RelPath)
	require.EqualValues(t, 5, metas[0].Size)
	require.NotEmpty(t, metas[0].ModTime)
}

func TestResolver_NoMatches_IsEmptyNotError(t *testing.T) {
	root := t.TempDir()
	r := fs.NewResolver()
	paths, err := r.ResolvePaths([]string{"nonexistent/**"}, root, nil)
	require.NoError(t, err)
	require.Empty(t, paths)
}

package cleanup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maastrich/cockpit/internal/adapters/cas"
	"github.com/maastrich/cockpit/internal/adapters/fs"
	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/engine/cleanup"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *cleanup.Engine {
	t.Helper()
	resolver := fs.NewResolver()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), ".cache"), resolver)
	require.NoError(t, err)
	return cleanup.New(resolver, store)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644)) //nolint:gosec // test fixture
}

func TestCleanup_Clean_UsesOutputsWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "out.txt"), "built")

	def := domain.TaskDefinition{
		Outputs: []string{"dist/**"},
		Cleanup: domain.CleanupSpec{UseOutputs: true},
	}

	e := newTestEngine(t)
	res, err := e.Clean(":build", def, dir, false)
	require.NoError(t, err)
	require.NotEmpty(t, res.Deleted)
	require.NoFileExists(t, filepath.Join(dir, "dist", "out.txt"))
}

func TestCleanup_Clean_ExplicitPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "build", "a.o"), "obj")

	def := domain.TaskDefinition{
		Outputs: []string{"dist/**"},
		Cleanup: domain.CleanupSpec{Patterns: []string{"build/**"}},
	}

	e := newTestEngine(t)
	res, err := e.Clean(":build", def, dir, false)
	require.NoError(t, err)
	require.NotEmpty(t, res.Deleted, "expected explicit pattern to match and delete")
}

func TestCleanup_Clean_DryRunDoesNotDelete(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dist", "out.txt"), "built")

	def := domain.TaskDefinition{
		Outputs: []string{"dist/**"},
		Cleanup: domain.CleanupSpec{UseOutputs: true},
	}

	e := newTestEngine(t)
	res, err := e.Clean(":build", def, dir, true)
	require.NoError(t, err)
	require.NotEmpty(t, res.Deleted, "expected dry run to still report matched paths")
	require.FileExists(t, filepath.Join(dir, "dist", "out.txt"))
}

func TestCleanup_Clean_NoPatternsIsNoop(t *testing.T) {
	dir := t.TempDir()
	def := domain.TaskDefinition{}

	e := newTestEngine(t)
	res, err := e.Clean(":build", def, dir, false)
	require.NoError(t, err)
	require.Empty(t, res.Deleted)
	require.Empty(t, res.Errors)
}

func TestCleanup_Clean_NonMatchingPatternIsSkipped(t *testing.T) {
	dir := t.TempDir()
	def := domain.TaskDefinition{
		Cleanup: domain.CleanupSpec{Patterns: []string{"nonexistent/**"}},
	}

	e := newTestEngine(t)
	res, err := e.Clean(":build", def, dir, false)
	require.NoError(t, err)
	require.Empty(t, res.Deleted)
}

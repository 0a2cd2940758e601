package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maastrich/cockpit/internal/adapters/fs"
	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func buildTask(cmd string) domain.ResolvedTask {
	return domain.ResolvedTask{
		ID:   "core:build",
		Name: "build",
		Definition: domain.TaskDefinition{
			Command: domain.NewShellCommand(cmd),
			Inputs:  []string{"src/**"},
		},
	}
}

func TestHasher_Deterministic(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main"), 0o600))

	h := fs.NewHasher(fs.NewResolver())
	task := buildTask("go build ./...")

	h1, err := h.ComputeInputHash(task, root, nil)
	require.NoError(t, err)
	h2, err := h.ComputeInputHash(task, root, nil)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Len(t, h1, 16)
}

func TestHasher_CommandChangesHash(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main"), 0o600))

	h := fs.NewHasher(fs.NewResolver())
	h1, err := h.ComputeInputHash(buildTask("go build ./..."), root, nil)
	require.NoError(t, err)
	h2, err := h.ComputeInputHash(buildTask("go test ./..."), root, nil)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

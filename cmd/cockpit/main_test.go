package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maastrich/cockpit/internal/adapters/config"
	"github.com/maastrich/cockpit/internal/adapters/fs"
	"github.com/maastrich/cockpit/internal/adapters/logger"
	"github.com/maastrich/cockpit/internal/adapters/process"
	"github.com/maastrich/cockpit/internal/adapters/telemetry"
	"github.com/maastrich/cockpit/internal/app"
)

func newTestApp() *app.App {
	resolver := fs.NewResolver()
	return app.New(
		config.NewLoader(),
		logger.New(),
		resolver,
		fs.NewHasher(resolver),
		process.New(),
		telemetry.NewNoOpTracer(),
	)
}

func TestRun_Success(t *testing.T) {
	provider := func(_ context.Context) (*app.App, func(), error) {
		return newTestApp(), func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d (stderr: %s)", exitCode, stderr.String())
	}
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.App, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("init failed")) {
		t.Errorf("expected error message in stderr, got: %s", stderr.String())
	}
}

func TestRun_ExecutionError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cockpit.yaml"), []byte(`
version: "1"
tasks:
  build:
    command: "exit 1"
`), 0o644); err != nil { //nolint:gosec // test fixture
		t.Fatalf("write file: %v", err)
	}

	provider := func(_ context.Context) (*app.App, func(), error) {
		return newTestApp(), func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"run", "build", "--cwd", dir}, stderr, provider)
	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

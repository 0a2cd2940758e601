package runner_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/maastrich/cockpit/internal/adapters/cas"
	"github.com/maastrich/cockpit/internal/adapters/fs"
	"github.com/maastrich/cockpit/internal/adapters/logger"
	"github.com/maastrich/cockpit/internal/adapters/process"
	"github.com/maastrich/cockpit/internal/core/domain"
	"github.com/maastrich/cockpit/internal/engine/runner"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T) (*runner.Runner, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	resolver := fs.NewResolver()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), ".cache"), resolver)
	require.NoError(t, err)
	log := logger.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	return runner.New(process.New(), fs.NewHasher(resolver), store, log), buf
}

func resolvedTask(id string, cmd domain.Command, workingDir string) domain.ResolvedTask {
	ws, name := domain.ParseID(id)
	return domain.ResolvedTask{
		ID:          id,
		WorkspaceID: ws,
		Name:        name,
		Definition:  domain.TaskDefinition{Command: cmd},
		WorkingDir:  workingDir,
	}
}

func TestRunner_Run_Success(t *testing.T) {
	r, _ := newTestRunner(t)
	task := resolvedTask(":build", domain.NewShellCommand("echo hello"), t.TempDir())

	res := r.Run(context.Background(), task, runner.Options{})
	require.Equal(t, runner.StatusSuccess, res.Status, "err: %v", res.Err)
}

func TestRunner_Run_Failure(t *testing.T) {
	r, _ := newTestRunner(t)
	task := resolvedTask(":build", domain.NewShellCommand("exit 7"), t.TempDir())

	res := r.Run(context.Background(), task, runner.Options{})
	require.Equal(t, runner.StatusFailed, res.Status)
	require.ErrorIs(t, res.Err, domain.ErrTaskExecution)
}

func TestRunner_Run_AllowFailure(t *testing.T) {
	r, _ := newTestRunner(t)
	task := resolvedTask(":build", domain.NewShellCommand("exit 1"), t.TempDir())
	task.Definition.AllowFailure = true

	res := r.Run(context.Background(), task, runner.Options{})
	require.Equal(t, runner.StatusSuccess, res.Status)
}

func TestRunner_Run_DryRun(t *testing.T) {
	r, _ := newTestRunner(t)
	task := resolvedTask(":build", domain.NewShellCommand("exit 1"), t.TempDir())

	res := r.Run(context.Background(), task, runner.Options{DryRun: true})
	require.Equal(t, runner.StatusSkipped, res.Status)
}

func TestRunner_Run_PlatformMismatchSkips(t *testing.T) {
	r, _ := newTestRunner(t)
	task := resolvedTask(":build", domain.NewShellCommand("exit 1"), t.TempDir())
	mismatched := domain.PlatformDarwin
	if mismatched.Matches() {
		mismatched = domain.PlatformLinux
	}
	task.Definition.Platform = mismatched

	res := r.Run(context.Background(), task, runner.Options{})
	require.Equal(t, runner.StatusSkipped, res.Status)
}

func TestRunner_Run_CacheHitOnSecondRun(t *testing.T) {
	r, _ := newTestRunner(t)
	dir := t.TempDir()
	task := resolvedTask(":build", domain.NewShellCommand("echo hi"), dir)

	first := r.Run(context.Background(), task, runner.Options{})
	require.Equal(t, runner.StatusSuccess, first.Status)

	second := r.Run(context.Background(), task, runner.Options{})
	require.Equal(t, runner.StatusCached, second.Status)
}

func TestRunner_Run_ForceSkipsCache(t *testing.T) {
	r, _ := newTestRunner(t)
	dir := t.TempDir()
	task := resolvedTask(":build", domain.NewShellCommand("echo hi"), dir)

	_ = r.Run(context.Background(), task, runner.Options{})
	second := r.Run(context.Background(), task, runner.Options{Force: true})
	require.Equal(t, runner.StatusSuccess, second.Status)
}

func TestRunner_Run_CacheDisabled(t *testing.T) {
	r, _ := newTestRunner(t)
	dir := t.TempDir()
	disabled := false
	task := resolvedTask(":build", domain.NewShellCommand("echo hi"), dir)
	task.Definition.Cache = &disabled

	_ = r.Run(context.Background(), task, runner.Options{})
	second := r.Run(context.Background(), task, runner.Options{})
	require.Equal(t, runner.StatusSuccess, second.Status)
}

func TestRunner_Run_ExtraArgsOnlyAffectMainTask(t *testing.T) {
	r, _ := newTestRunner(t)
	dir := t.TempDir()
	task := resolvedTask(":build", domain.NewShellCommand("echo hi"), dir)

	main := r.Run(context.Background(), task, runner.Options{ExtraArgs: []string{"--flag"}, IsMainTask: true})
	require.Equal(t, runner.StatusSuccess, main.Status)

	dep := r.Run(context.Background(), task, runner.Options{ExtraArgs: []string{"--flag"}, IsMainTask: false})
	require.Equal(t, runner.StatusSuccess, dep.Status)
}

// TestRunner_Run_StructCommandWithShellAppendsArgsIntoScript guards against
// args after "sh -c script" being swallowed as positional parameters ($0,
// $1, ...) instead of being appended to the invoked program line.
func TestRunner_Run_StructCommandWithShellAppendsArgsIntoScript(t *testing.T) {
	r, buf := newTestRunner(t)
	dir := t.TempDir()
	task := resolvedTask(":build", domain.NewStructCommand("echo", []string{"hello", "world"}, "", true), dir)

	res := r.Run(context.Background(), task, runner.Options{})
	require.Equal(t, runner.StatusSuccess, res.Status, "err: %v", res.Err)
	require.Contains(t, buf.String(), "hello world")
}

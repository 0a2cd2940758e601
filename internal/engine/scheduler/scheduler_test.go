package scheduler_test

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
	"github.com/maastrich/cockpit/internal/engine/scheduler"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T) *runner.Runner {
	t.Helper()
	r, _ := newTestRunnerWithOutput(t)
	return r
}

func newTestRunnerWithOutput(t *testing.T) (*runner.Runner, *bytes.Buffer) {
	t.Helper()
	resolver := fs.NewResolver()
	store, err := cas.NewStore(filepath.Join(t.TempDir(), ".cache"), resolver)
	require.NoError(t, err)
	log := logger.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	return runner.New(process.New(), fs.NewHasher(resolver), store, log), buf
}

func task(id, cmd string, deps []string) domain.ResolvedTask {
	ws, name := domain.ParseID(id)
	return domain.ResolvedTask{
		ID:           id,
		WorkspaceID:  ws,
		Name:         name,
		Definition:   domain.TaskDefinition{Command: domain.NewShellCommand(cmd)},
		Dependencies: deps,
		WorkingDir:   "/tmp",
	}
}

// diamondGraph builds a:ok -> {b:ok, c:fail} -> d:ok, where d depends on
// both b and c and c fails, so the scheduler must skip d without running it.
func diamondGraph(workDir string) *domain.TaskGraph {
	a := task(":a", "echo a", nil)
	b := task(":b", "echo b", []string{":a"})
	c := task(":c", "exit 1", []string{":a"})
	d := task(":d", "echo d", []string{":b", ":c"})
	for _, t := range []*domain.ResolvedTask{&a, &b, &c, &d} {
		t.WorkingDir = workDir
	}
	return domain.NewTaskGraph(
		map[domain.TaskId]domain.ResolvedTask{":a": a, ":b": b, ":c": c, ":d": d},
		[]domain.TaskId{":a", ":b", ":c", ":d"},
		[][]domain.TaskId{{":a"}, {":b", ":c"}, {":d"}},
		[]domain.TaskId{":d"},
	)
}

func TestScheduler_Run_Success(t *testing.T) {
	dir := t.TempDir()
	g := domain.NewTaskGraph(
		map[domain.TaskId]domain.ResolvedTask{":a": task(":a", "echo hi", nil)},
		[]domain.TaskId{":a"},
		[][]domain.TaskId{{":a"}},
		[]domain.TaskId{":a"},
	)
	for id, tk := range g.Tasks {
		tk.WorkingDir = dir
		g.Tasks[id] = tk
	}

	s := scheduler.New(g, newTestRunner(t))
	res := s.Run(context.Background(), scheduler.Options{Concurrency: 2})
	require.True(t, res.Success, "results: %+v", res.Results)
	require.Len(t, res.Results, 1)
}

func TestScheduler_Run_FailureCascadesSkip(t *testing.T) {
	dir := t.TempDir()
	g := diamondGraph(dir)

	s := scheduler.New(g, newTestRunner(t))
	res := s.Run(context.Background(), scheduler.Options{Concurrency: 4})
	require.False(t, res.Success)
	require.Len(t, res.Results, 4)

	byID := map[domain.TaskId]runner.Status{}
	for _, r := range res.Results {
		byID[r.TaskID] = r.Status
	}
	require.Equal(t, runner.StatusSuccess, byID[":a"])
	require.Equal(t, runner.StatusFailed, byID[":c"])
	require.Equal(t, runner.StatusSkipped, byID[":d"])
}

func TestScheduler_Run_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	g := diamondGraph(dir)

	s := scheduler.New(g, newTestRunner(t))
	res := s.Run(context.Background(), scheduler.Options{Concurrency: 4, ContinueOnError: true})
	require.False(t, res.Success, "expected overall failure despite continue-on-error")

	byID := map[domain.TaskId]runner.Status{}
	for _, r := range res.Results {
		byID[r.TaskID] = r.Status
	}
	require.NotEqual(t, runner.StatusSkipped, byID[":d"], "expected :d to still run with continue-on-error set")
}

func TestScheduler_Run_DryRun(t *testing.T) {
	dir := t.TempDir()
	g := diamondGraph(dir)

	s := scheduler.New(g, newTestRunner(t))
	res := s.Run(context.Background(), scheduler.Options{Concurrency: 4, DryRun: true, ContinueOnError: true})
	for _, r := range res.Results {
		require.NotEqual(t, runner.StatusFailed, r.Status, "task %s", r.TaskID)
	}
}

func TestScheduler_Run_UsesWorkspaceEnv(t *testing.T) {
	dir := t.TempDir()
	a := task(":a", "echo \"val=$MY_VAR\"", nil)
	a.WorkingDir = dir
	a.WorkspaceEnv = map[string]string{"MY_VAR": "from-workspace"}
	g := domain.NewTaskGraph(
		map[domain.TaskId]domain.ResolvedTask{":a": a},
		[]domain.TaskId{":a"},
		[][]domain.TaskId{{":a"}},
		[]domain.TaskId{":a"},
	)

	r, buf := newTestRunnerWithOutput(t)
	s := scheduler.New(g, r)
	res := s.Run(context.Background(), scheduler.Options{Concurrency: 1})
	require.True(t, res.Success)
	require.Contains(t, buf.String(), "from-workspace")
}

func TestSummarize(t *testing.T) {
	results := []runner.Result{
		{Status: runner.StatusSuccess},
		{Status: runner.StatusFailed},
		{Status: runner.StatusCached},
		{Status: runner.StatusSkipped},
		{Status: runner.StatusSkipped},
	}
	success, failed, cached, skipped := scheduler.Summarize(results, 0)
	require.Equal(t, 1, success)
	require.Equal(t, 1, failed)
	require.Equal(t, 1, cached)
	require.Equal(t, 2, skipped)
}

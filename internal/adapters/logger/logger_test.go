package logger_test

import (
	"bytes"
	"testing"

	"github.com/maastrich/cockpit/internal/adapters/logger"
	"github.com/maastrich/cockpit/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*logger.Console, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)
	return l, buf
}

func TestConsole_Task(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Task("core:build", ports.StatusSuccess, "in 12ms")
	out := buf.String()
	assert.Contains(t, out, "core:build")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "in 12ms")
}

func TestConsole_TaskStdoutAndStderr(t *testing.T) {
	l, buf := newTestLogger(t)
	l.TaskStdout("core:build", "hi")
	l.TaskStderr("core:build", "uh oh")
	out := buf.String()
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "uh oh")
}

func TestConsole_Summary(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Summary(ports.Summary{Success: 2, Failed: 1, Cached: 0, Skipped: 0, Duration: 150})
	out := buf.String()
	assert.Contains(t, out, "2 success")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "150ms")
}

func TestConsole_ColorAssignmentDeterministic(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Task("a:build", ports.StatusRunning, "")
	first := buf.String()
	buf.Reset()
	l.Task("a:build", ports.StatusRunning, "")
	second := buf.String()
	require.Equal(t, first, second)
}

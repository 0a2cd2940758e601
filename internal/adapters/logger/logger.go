// Package logger implements the default ports.Logger adapter: a
// task-prefixed, color-assigned, status-typed terminal renderer (spec §6).
package logger

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/maastrich/cockpit/internal/core/ports"
	"github.com/maastrich/cockpit/internal/ui/style"
)

// goldenRatioConjugate spreads successive hues evenly around the color
// wheel; hashing a task id to a seed fraction and offsetting it by this
// constant gives a deterministic, visually distinct color per task.
const goldenRatioConjugate = 0.6180339887498949

// Console implements ports.Logger, rendering task status transitions,
// captured output lines, and the run summary to a terminal.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	colors map[string]lipgloss.Color
}

// New creates a Console logger writing to stdout.
func New() *Console {
	return &Console{out: os.Stdout, colors: make(map[string]lipgloss.Color)}
}

// SetOutput redirects rendering, used by tests.
func (c *Console) SetOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out = w
}

// taskColor returns id's deterministic color, computing and caching it on
// first use. Callers hold c.mu.
func (c *Console) taskColor(id string) lipgloss.Color {
	if col, ok := c.colors[id]; ok {
		return col
	}
	col := lipgloss.Color(hueColor(id).Hex())
	c.colors[id] = col
	return col
}

// hueColor converts id's hash into a hue via the golden-ratio conjugate and
// renders it as HSL(saturation=0.7, lightness=0.6) per spec §6.
func hueColor(id string) colorful.Color {
	seed := float64(xxhash.Sum64String(id)) / float64(math.MaxUint64)
	hue := math.Mod(seed+goldenRatioConjugate, 1) * 360
	return colorful.Hsl(hue, 0.7, 0.6)
}

func (c *Console) prefix(id string) string {
	return lipgloss.NewStyle().Foreground(c.taskColor(id)).Bold(true).Render(id)
}

func statusStyle(s ports.TaskStatus) lipgloss.Style {
	switch s {
	case ports.StatusSuccess, ports.StatusCached, ports.StatusRestored:
		return lipgloss.NewStyle().Foreground(style.Green)
	case ports.StatusFailed:
		return lipgloss.NewStyle().Foreground(style.Red)
	case ports.StatusSkipped:
		return lipgloss.NewStyle().Foreground(style.Slate).Faint(true)
	default:
		return lipgloss.NewStyle().Foreground(style.Iris)
	}
}

// Task reports a status transition for a task id.
func (c *Console) Task(id string, status ports.TaskStatus, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := fmt.Sprintf("%s %s", c.prefix(id), statusStyle(status).Render(string(status)))
	if msg != "" {
		line += " " + msg
	}
	fmt.Fprintln(c.out, line)
}

// TaskStdout forwards one line of a task's captured stdout.
func (c *Console) TaskStdout(id string, line string) {
	c.writeLine(id, line, false)
}

// TaskStderr forwards one line of a task's captured stderr.
func (c *Console) TaskStderr(id string, line string) {
	c.writeLine(id, line, true)
}

func (c *Console) writeLine(id, line string, stderr bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rendered := fmt.Sprintf("%s %s", c.prefix(id), line)
	if stderr {
		rendered = lipgloss.NewStyle().Foreground(style.Red).Render(rendered)
	}
	fmt.Fprintln(c.out, rendered)
}

// Summary reports the aggregate result of a completed run.
func (c *Console) Summary(s ports.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := fmt.Sprintf("%d success, %d failed, %d cached, %d skipped in %dms",
		s.Success, s.Failed, s.Cached, s.Skipped, s.Duration)
	st := statusStyle(ports.StatusSuccess)
	if s.Failed > 0 {
		st = statusStyle(ports.StatusFailed)
	}
	fmt.Fprintln(c.out, st.Bold(true).Render(line))
}

var _ ports.Logger = (*Console)(nil)

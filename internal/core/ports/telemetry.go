package ports

import (
	"context"
	"io"
)

// Tracer is the entry point for creating spans, adapted by
// adapters/telemetry onto OpenTelemetry. Ambient observability, distinct
// from the user-facing Logger contract (spec §6).
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals that a set of tasks is planned for execution, used
	// to attach the full parallel-level plan to the run's root span.
	EmitPlan(ctx context.Context, taskIDs []string)
}

// Span represents one unit of traced work.
type Span interface {
	io.Writer
	End()
	RecordError(err error)
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	Kind string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithKind sets the span's kind attribute (e.g. "task", "scheduler").
func WithKind(kind string) SpanOption {
	return func(c *SpanConfig) { c.Kind = kind }
}

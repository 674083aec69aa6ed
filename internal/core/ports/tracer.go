package ports

import "context"

// SpanConfig holds optional span configuration.
type SpanConfig struct {
	// Attributes to set when the span starts.
	Attributes map[string]any
}

// SpanOption configures a span at creation time.
type SpanOption func(*SpanConfig)

// WithAttributes sets initial attributes on a span.
func WithAttributes(attrs map[string]any) SpanOption {
	return func(cfg *SpanConfig) {
		cfg.Attributes = attrs
	}
}

// Span represents a single traced operation.
type Span interface {
	// End completes the span.
	End()

	// RecordError records an error for the span and marks it failed.
	RecordError(err error)

	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// Tracer is the abstraction for emitting trace spans.
// It decouples the mapper and middleware from the telemetry backend.
//
//go:generate mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// Start creates a new span as a child of the span in ctx, if any.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)

	// Shutdown flushes any buffered telemetry.
	Shutdown(ctx context.Context) error
}

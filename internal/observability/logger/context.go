// Package logger provides trace-aware logging helpers and masking for
// sensitive banking fields.
package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FromContext returns the global logger enriched with the active trace and
// span IDs when a sampled span is present.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	if ctx == nil {
		return log
	}
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}

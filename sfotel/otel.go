// Package sfotel surfaces OpenTelemetry trace identity on rendered
// lines. The host (or an OpenTelemetry bridge) attaches a
// trace.SpanContext to each span; WithOpenTelemetryIDs then emits the
// trace and span ids of the current span.
package sfotel

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/spanfmt/spanfmt-go/sfbase"
	"github.com/spanfmt/spanfmt-go/sfjson"
)

type spanContextKey struct{}

// AttachSpanContext stores sc on the span for later rendering.
func AttachSpanContext(span sfbase.Span, sc trace.SpanContext) {
	span.Extensions().Set(spanContextKey{}, sc)
}

// SpanContextFromSpan retrieves a previously attached SpanContext.
func SpanContextFromSpan(span sfbase.Span) (trace.SpanContext, bool) {
	v, ok := span.Extensions().Get(spanContextKey{})
	if !ok {
		return trace.SpanContext{}, false
	}
	sc, ok := v.(trace.SpanContext)
	return sc, ok
}

// IDs is the rendered shape of one span's trace identity.
type IDs struct {
	TraceID string `json:"traceId"`
	SpanID  string `json:"spanId"`
}

// WithOpenTelemetryIDs emits {"traceId":...,"spanId":...} under key
// for events inside a span that carries a valid SpanContext.
func WithOpenTelemetryIDs(key string) sfjson.Option {
	return sfjson.WithSpanField(key, func(span sfbase.Span) (interface{}, bool) {
		sc, ok := SpanContextFromSpan(span)
		if !ok || !sc.IsValid() {
			return nil, false
		}
		return IDs{
			TraceID: sc.TraceID().String(),
			SpanID:  sc.SpanID().String(),
		}, true
	})
}

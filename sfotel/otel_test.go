package sfotel_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/trace"

	"github.com/spanfmt/spanfmt-go/sfbytes"
	"github.com/spanfmt/spanfmt-go/sfjson"
	"github.com/spanfmt/spanfmt-go/sfotel"
	"github.com/spanfmt/spanfmt-go/sftest"
	"github.com/spanfmt/spanfmt-go/sfutil"
)

func testSpanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
}

func TestOpenTelemetryIDs(t *testing.T) {
	var buf sfutil.Buffer
	layer := sfjson.New(sfbytes.WriteToIOWriter(&buf),
		sfjson.WithValidityChecks(true),
		sfotel.WithOpenTelemetryIDs("openTelemetry"),
	)
	r := sftest.New(layer)

	span := r.NewSpan("traced")
	sfotel.AttachSpanContext(span, testSpanContext(t))
	span.Info("app", "")

	line := strings.TrimSuffix(buf.String(), "\n")
	require.True(t, gjson.Valid(line))
	assert.Equal(t, "0123456789abcdef0123456789abcdef",
		gjson.Get(line, "openTelemetry.traceId").String())
	assert.Equal(t, "0123456789abcdef",
		gjson.Get(line, "openTelemetry.spanId").String())
}

func TestOpenTelemetryIDsOmittedWithoutContext(t *testing.T) {
	var buf sfutil.Buffer
	layer := sfjson.New(sfbytes.WriteToIOWriter(&buf),
		sfjson.WithValidityChecks(true),
		sfjson.WithLevel("level"),
		sfotel.WithOpenTelemetryIDs("openTelemetry"),
	)
	r := sftest.New(layer)

	// Span without an attached context.
	span := r.NewSpan("plain")
	span.Info("app", "")
	// Span with an invalid (zero) context.
	invalid := r.NewSpan("zero")
	sfotel.AttachSpanContext(invalid, trace.SpanContext{})
	invalid.Info("app", "")

	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, got, 2)
	for _, line := range got {
		assert.Equal(t, `{"level":"INFO"}`, line)
	}
}

func TestSpanContextRoundTrip(t *testing.T) {
	r := sftest.New()
	span := r.NewSpan("s")
	_, ok := sfotel.SpanContextFromSpan(span)
	assert.False(t, ok)

	sc := testSpanContext(t)
	sfotel.AttachSpanContext(span, sc)
	got, ok := sfotel.SpanContextFromSpan(span)
	require.True(t, ok)
	assert.Equal(t, sc, got)
}

package sfjson

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/spanfmt/spanfmt-go/sfbase"
	"github.com/spanfmt/spanfmt-go/sfbytes"
	"github.com/spanfmt/spanfmt-go/sfutil"
)

// TimeFormatter appends a complete JSON value (normally a quoted
// timestamp string) to b.
type TimeFormatter func(b []byte, t time.Time) []byte

func defaultTimeFormatter(b []byte, t time.Time) []byte {
	b = append(b, '"')
	b = t.AppendFormat(b, time.RFC3339Nano)
	b = append(b, '"')
	return b
}

var _ sfbase.Layer = &Layer{}

// Layer formats span and event callbacks from a host into NDJSON
// lines. Configure it with Options before handing it to the host;
// after that the schema is read-only and rendering is safe from any
// number of goroutines.
type Layer struct {
	id                uuid.UUID
	writer            sfbytes.BytesWriter
	schema            *schema
	clock             func() time.Time
	timeFormatter     TimeFormatter
	builders          sfutil.BufferPool
	diag              io.Writer
	logInternalErrors bool
	errorFunc         func(error)
	validityChecks    bool
}

type Option func(*Layer)

// New creates a Layer writing to w. Without options the schema is
// empty: every event renders as {}. See the With* options and the
// spanfmt package for assembled defaults.
func New(w sfbytes.BytesWriter, opts ...Option) *Layer {
	l := &Layer{
		id:            uuid.New(),
		writer:        w,
		schema:        newSchema(),
		clock:         time.Now,
		timeFormatter: defaultTimeFormatter,
		diag:          os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ID identifies this layer instance in diagnostics.
func (l *Layer) ID() string {
	return l.id.String()
}

// Close flushes and closes the underlying writer.
func (l *Layer) Close() {
	l.writer.Close()
}

// SetErrorFunc routes internal errors (sink failures, misbehaving
// producers, missing span state) to f instead of the diagnostic
// stream.
func (l *Layer) SetErrorFunc(f func(error)) {
	l.errorFunc = f
}

// OnNewSpan builds the span's field store from its creation
// attributes and attaches it via extensions. The store includes the
// injected name field and a serialized cache from the start, so an
// event arriving immediately after still renders full span data.
func (l *Layer) OnNewSpan(attrs *sfbase.Attributes, id sfbase.SpanID, ctx sfbase.Context) {
	span, ok := ctx.Span(id)
	if !ok {
		l.internalError(errors.Errorf("new span %d not found in context", id))
		return
	}
	ext := span.Extensions()
	if _, ok := ext.Get(fieldStoreKey{}); ok {
		// A second OnNewSpan for the same span means the host
		// double-registered it. Keep the original store.
		l.internalError(errors.Errorf("span %d already has a field store", id))
		return
	}
	name := span.Name()
	if attrs != nil && attrs.Metadata != nil && attrs.Metadata.Name != "" {
		name = attrs.Metadata.Name
	}
	var fields []sfbase.Field
	if attrs != nil {
		fields = attrs.Fields
	}
	ext.Set(fieldStoreKey{}, newFieldStore(name, fields))
}

// OnRecord folds later-recorded values into the span's store. The
// cache is refreshed before returning, so the new values are visible
// to any event rendered afterwards.
func (l *Layer) OnRecord(id sfbase.SpanID, values []sfbase.Field, ctx sfbase.Context) {
	span, ok := ctx.Span(id)
	if !ok {
		l.internalError(errors.Errorf("record for span %d: span not found in context", id))
		return
	}
	store, ok := StoreFromSpan(span)
	if !ok {
		l.internalError(errors.Errorf("record for span %d: no field store attached", id))
		return
	}
	store.Record(values)
}

// OnEvent renders the event as one NDJSON line and hands it to the
// sink in a single Write. The buffer comes from a pool; reentrant
// events triggered by the sink write get their own buffer.
func (l *Layer) OnEvent(event *sfbase.Event, ctx sfbase.Context) {
	b := l.builders.Get()
	defer l.builders.Put(b)
	if err := l.formatEvent(b, event, ctx); err != nil {
		l.internalError(err)
		return
	}
	w := l.writer.Writer(event.Metadata)
	if _, err := w.Write(b.B); err != nil {
		l.internalError(errors.Wrap(err, "write event line"))
	}
}

// internalError reports a problem inside the layer itself. Rendering
// never panics over one; at most the event or entry involved is
// dropped.
func (l *Layer) internalError(err error) {
	if l.errorFunc != nil {
		l.errorFunc(err)
		return
	}
	if l.logInternalErrors {
		fmt.Fprintf(l.diag, "[sfjson %s] %+v\n", l.id, err)
	}
}

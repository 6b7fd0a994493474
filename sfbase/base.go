// Package sfbase defines the contract between a host tracing framework
// and formatting layers. The host owns span storage, context
// propagation, and level filtering; a Layer only observes lifecycle
// callbacks and renders events. There can be many Layer
// implementations; sfjson is the canonical one.
package sfbase

import (
	"github.com/Masterminds/semver/v3"

	"github.com/spanfmt/spanfmt-go/sfnum"
)

// SpanID identifies one live span within the host. The host may reuse
// an id only after the span carrying it has been closed.
type SpanID uint64

// Metadata is the static callsite information attached to a span or an
// event. It never changes after creation.
type Metadata struct {
	Name   string
	Target string
	Level  sfnum.Level
	File   string
	Line   int
}

// Attributes carries the initial field values for a new span along
// with its metadata.
type Attributes struct {
	Metadata *Metadata
	Fields   []Field
}

// Event is one point-in-time log record. The message, if any, is the
// "message" field. An Event is only valid for the duration of the
// OnEvent call that delivers it.
type Event struct {
	Metadata *Metadata
	Fields   []Field
}

// Message returns the event's "message" field, if it has one and it is
// string-typed.
func (e *Event) Message() (string, bool) {
	for _, f := range e.Fields {
		if f.Key == "message" && f.Type == StringType {
			return f.String, true
		}
	}
	return "", false
}

// Span is the host's view of one live span.
//
// Scope and Extensions may be called from any goroutine; the host
// guarantees that lifecycle mutation of one span (OnNewSpan, OnRecord)
// is not concurrent with itself, but reads of a span can race with
// that span's record callbacks, so anything a Layer attaches via
// Extensions must be safe for concurrent readers.
type Span interface {
	ID() SpanID
	Name() string
	Metadata() *Metadata

	// Parent returns the enclosing span, or nil for a root span.
	Parent() Span

	// Scope returns the span chain from root to this span, inclusive.
	Scope() []Span

	// Extensions is the typed side-table where layers attach
	// per-span state. It lives exactly as long as the span.
	Extensions() *Extensions
}

// Context is the per-callback view into the host's span storage.
type Context interface {
	// Span looks up a live span by id.
	Span(id SpanID) (Span, bool)

	// CurrentSpan returns the nearest enclosing span for the event
	// being dispatched, or nil if the event is detached.
	CurrentSpan() Span
}

// Layer is the callback half of a formatter. The host invokes
// OnNewSpan exactly once per span before any OnRecord or child-event
// callback for that span. Callbacks for different spans may run
// concurrently.
type Layer interface {
	OnNewSpan(attrs *Attributes, id SpanID, ctx Context)
	OnRecord(id SpanID, values []Field, ctx Context)
	OnEvent(event *Event, ctx Context)
}

// SourceInfo identifies the program producing the logs.
type SourceInfo struct {
	Source        string
	SourceVersion *semver.Version
}

// String renders "name version", or just the name when no version is
// set.
func (si SourceInfo) String() string {
	if si.SourceVersion == nil {
		return si.Source
	}
	return si.Source + " " + si.SourceVersion.String()
}

// Package sftest is an in-memory host for exercising formatting
// layers. It owns span storage and dispatch, drives the sfbase.Layer
// callbacks the way a real tracing host would, and keeps a record of
// everything dispatched for assertions.
package sftest

import (
	"sync"

	"github.com/mohae/deepcopy"
	"github.com/muir/list"

	"github.com/spanfmt/spanfmt-go/sfbase"
	"github.com/spanfmt/spanfmt-go/sfnum"
)

// Registry is the host. Spans are created against it, events are
// emitted through it, and every attached layer sees the resulting
// callbacks.
type Registry struct {
	mu       sync.Mutex
	layers   []sfbase.Layer
	spans    map[sfbase.SpanID]*Span
	spanList []*Span
	events   []*RecordedEvent
	nextID   sfbase.SpanID
}

// RecordedEvent is the registry's retained copy of one dispatched
// event.
type RecordedEvent struct {
	Metadata *sfbase.Metadata
	Fields   []sfbase.Field
	SpanID   sfbase.SpanID // 0 for detached events
}

func New(layers ...sfbase.Layer) *Registry {
	return &Registry{
		layers: layers,
		spans:  make(map[sfbase.SpanID]*Span),
	}
}

// Attach adds a layer. Do this before creating spans: a layer that
// missed a span's OnNewSpan has no field data for it.
func (r *Registry) Attach(layer sfbase.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers = append(r.layers, layer)
}

// Span is one live span owned by the registry.
type Span struct {
	registry *Registry
	id       sfbase.SpanID
	md       *sfbase.Metadata
	parent   *Span
	ext      sfbase.Extensions
	fields   []sfbase.Field
}

var _ sfbase.Span = &Span{}

func (s *Span) ID() sfbase.SpanID          { return s.id }
func (s *Span) Name() string               { return s.md.Name }
func (s *Span) Metadata() *sfbase.Metadata { return s.md }
func (s *Span) Extensions() *sfbase.Extensions {
	return &s.ext
}

func (s *Span) Parent() sfbase.Span {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

// Scope returns the chain from the root down to this span.
func (s *Span) Scope() []sfbase.Span {
	var depth int
	for cur := s; cur != nil; cur = cur.parent {
		depth++
	}
	scope := make([]sfbase.Span, depth)
	for cur := s; cur != nil; cur = cur.parent {
		depth--
		scope[depth] = cur
	}
	return scope
}

// Fields returns the span's initial fields plus everything recorded
// since, in arrival order.
func (s *Span) Fields() []sfbase.Field {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()
	return list.Copy(s.fields)
}

// NewSpan creates a root span and dispatches OnNewSpan.
func (r *Registry) NewSpan(name string, fields ...sfbase.Field) *Span {
	return r.newSpan(nil, name, fields)
}

// NewChild creates a nested span under s.
func (s *Span) NewChild(name string, fields ...sfbase.Field) *Span {
	return s.registry.newSpan(s, name, fields)
}

func (r *Registry) newSpan(parent *Span, name string, fields []sfbase.Field) *Span {
	r.mu.Lock()
	r.nextID++
	span := &Span{
		registry: r,
		id:       r.nextID,
		md:       &sfbase.Metadata{Name: name},
		parent:   parent,
		fields:   retainFields(fields),
	}
	r.spans[span.id] = span
	r.spanList = append(r.spanList, span)
	layers := r.layers
	r.mu.Unlock()

	attrs := &sfbase.Attributes{Metadata: span.md, Fields: fields}
	ctx := &callbackContext{registry: r}
	for _, layer := range layers {
		layer.OnNewSpan(attrs, span.id, ctx)
	}
	return span
}

// Record adds or updates field values on the span and dispatches
// OnRecord.
func (s *Span) Record(fields ...sfbase.Field) {
	r := s.registry
	r.mu.Lock()
	s.fields = append(s.fields, retainFields(fields)...)
	layers := r.layers
	r.mu.Unlock()

	ctx := &callbackContext{registry: r}
	for _, layer := range layers {
		layer.OnRecord(s.id, fields, ctx)
	}
}

// Close retires the span. Its id may be reused afterwards; the
// registry does not, so span lookups simply start failing.
func (s *Span) Close() {
	r := s.registry
	r.mu.Lock()
	delete(r.spans, s.id)
	r.mu.Unlock()
}

// Log emits an event with s as the current span.
func (s *Span) Log(level sfnum.Level, target string, message string, fields ...sfbase.Field) {
	s.registry.dispatchEvent(s, level, target, message, fields)
}

func (s *Span) Info(target, message string, fields ...sfbase.Field) {
	s.Log(sfnum.InfoLevel, target, message, fields...)
}

// Log emits a detached event, outside any span.
func (r *Registry) Log(level sfnum.Level, target string, message string, fields ...sfbase.Field) {
	r.dispatchEvent(nil, level, target, message, fields)
}

func (r *Registry) Info(target, message string, fields ...sfbase.Field) {
	r.Log(sfnum.InfoLevel, target, message, fields...)
}

func (r *Registry) dispatchEvent(current *Span, level sfnum.Level, target string, message string, fields []sfbase.Field) {
	md := &sfbase.Metadata{
		Target: target,
		Level:  level,
	}
	if message != "" {
		fields = append([]sfbase.Field{sfbase.String("message", message)}, fields...)
	}
	rec := &RecordedEvent{Metadata: md, Fields: retainFields(fields)}
	if current != nil {
		rec.SpanID = current.id
	}
	r.mu.Lock()
	r.events = append(r.events, rec)
	layers := r.layers
	r.mu.Unlock()

	event := &sfbase.Event{Metadata: md, Fields: fields}
	ctx := &callbackContext{registry: r, current: current}
	for _, layer := range layers {
		layer.OnEvent(event, ctx)
	}
}

// Emit dispatches an event with caller-supplied metadata, for tests
// that need file and line populated.
func (r *Registry) Emit(current *Span, md *sfbase.Metadata, fields ...sfbase.Field) {
	rec := &RecordedEvent{Metadata: md, Fields: retainFields(fields)}
	if current != nil {
		rec.SpanID = current.id
	}
	r.mu.Lock()
	r.events = append(r.events, rec)
	layers := r.layers
	r.mu.Unlock()

	event := &sfbase.Event{Metadata: md, Fields: fields}
	ctx := &callbackContext{registry: r, current: current}
	for _, layer := range layers {
		layer.OnEvent(event, ctx)
	}
}

// Spans returns every span ever created, in creation order.
func (r *Registry) Spans() []*Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	return list.Copy(r.spanList)
}

// Events returns every dispatched event, in dispatch order.
func (r *Registry) Events() []*RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return list.Copy(r.events)
}

// retainFields copies fields for retention past the callback. Boxed
// Any values are deep-copied so later caller mutation cannot change
// the record.
func retainFields(fields []sfbase.Field) []sfbase.Field {
	out := list.Copy(fields)
	for i := range out {
		if out[i].Type == sfbase.AnyType && out[i].Any != nil {
			out[i].Any = deepcopy.Copy(out[i].Any)
		}
	}
	return out
}

// callbackContext is the per-dispatch view handed to layers.
type callbackContext struct {
	registry *Registry
	current  *Span
}

var _ sfbase.Context = &callbackContext{}

func (c *callbackContext) Span(id sfbase.SpanID) (sfbase.Span, bool) {
	c.registry.mu.Lock()
	defer c.registry.mu.Unlock()
	span, ok := c.registry.spans[id]
	if !ok {
		return nil, false
	}
	return span, true
}

func (c *callbackContext) CurrentSpan() sfbase.Span {
	if c.current == nil {
		return nil
	}
	return c.current
}

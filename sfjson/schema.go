package sfjson

import (
	"sort"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"

	"github.com/spanfmt/spanfmt-go/sfbase"
	"github.com/spanfmt/spanfmt-go/sfutil"
)

// EventRef is the renderer's view of one event: the event itself, the
// host context it arrived with, and the current span resolved exactly
// once for the whole render pass.
type EventRef struct {
	Event *sfbase.Event
	Ctx   sfbase.Context

	span         sfbase.Span
	spanResolved bool
}

// CurrentSpan returns the span that was current when the event fired,
// or nil for a detached event. The lookup is done once and memoized
// so every producer in the pass sees the same span.
func (e *EventRef) CurrentSpan() sfbase.Span {
	if !e.spanResolved {
		e.span = e.Ctx.CurrentSpan()
		e.spanResolved = true
	}
	return e.span
}

func (e *EventRef) Metadata() *sfbase.Metadata {
	return e.Event.Metadata
}

// FieldMap returns the event's fields coerced to plain Go values,
// ready for structured serialization.
func (e *EventRef) FieldMap() map[string]interface{} {
	m := make(map[string]interface{}, len(e.Event.Fields))
	for _, f := range e.Event.Fields {
		m[f.Key] = coerce(f).value()
	}
	return m
}

// FromEventFunc produces a value from the event being rendered.
// Returning false omits the entry from the line.
type FromEventFunc func(*EventRef) (interface{}, bool)

// FromSpanFunc produces a value from the current span. It is only
// invoked when a current span exists.
type FromSpanFunc func(sfbase.Span) (interface{}, bool)

// CachedFromSpanFunc produces a pre-serialized fragment from the
// current span, typically straight out of its FieldStore cache.
type CachedFromSpanFunc func(sfbase.Span) (Cached, bool)

// RawFromEventFunc writes a complete JSON value directly into the
// output buffer. On a non-nil error the renderer rolls the buffer
// back to where it was before the entry started; ErrSkip suppresses
// the entry without a diagnostic.
type RawFromEventFunc func(*EventRef, *sfutil.JBuilder) error

type producerKind int

const (
	constantProducer producerKind = iota
	fromEventProducer
	fromSpanProducer
	cachedFromSpanProducer
	rawFromEventProducer
)

type producer struct {
	kind      producerKind
	constant  interface{}
	fromEvent FromEventFunc
	fromSpan  FromSpanFunc
	cached    CachedFromSpanFunc
	raw       RawFromEventFunc
}

// Well-known slots for entries that flatten their members into the
// top level of the line rather than nesting under a key. One entry
// per slot; configuring a slot twice replaces the earlier producer.
const (
	flattenEventSlot       = "event"
	flattenCurrentSpanSlot = "span"
	flattenSpanListSlot    = "spanList"
)

// schema maps output keys to producers. Keyed entries emit
// "key":<value>; flattened entries emit the members of the produced
// object at the top level. Mutation is config-time only: once the
// layer is rendering events the schema must not change.
type schema struct {
	keyed     map[string]producer
	flattened map[string]producer
	ordered   []schemaEntry
}

type schemaEntry struct {
	key     string
	flatten bool
	p       producer
}

func newSchema() *schema {
	return &schema{
		keyed:     make(map[string]producer),
		flattened: make(map[string]producer),
	}
}

func (s *schema) set(key string, p producer) {
	s.keyed[key] = p
	s.reorder()
}

func (s *schema) setFlattened(slot string, p producer) {
	s.flattened[slot] = p
	s.reorder()
}

func (s *schema) remove(key string) {
	delete(s.keyed, key)
	s.reorder()
}

func (s *schema) removeFlattened(slot string) {
	delete(s.flattened, slot)
	s.reorder()
}

// reorder rebuilds the render order: keyed entries sorted by output
// key, then flattened entries sorted by slot name. Deterministic
// ordering keeps golden output stable across runs.
func (s *schema) reorder() {
	s.ordered = s.ordered[:0]
	for _, k := range sortedKeys(s.keyed) {
		s.ordered = append(s.ordered, schemaEntry{key: k, p: s.keyed[k]})
	}
	for _, k := range sortedKeys(s.flattened) {
		s.ordered = append(s.ordered, schemaEntry{key: k, flatten: true, p: s.flattened[k]})
	}
}

func sortedKeys(m map[string]producer) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *schema) addStatic(key string, value interface{}) {
	// The schema owns the value from here on; a deep copy keeps a
	// caller-side mutation of a map or slice from leaking into
	// every future line.
	s.set(key, producer{kind: constantProducer, constant: deepcopy.Copy(value)})
}

func (s *schema) addFromEvent(key string, f FromEventFunc) {
	s.set(key, producer{kind: fromEventProducer, fromEvent: f})
}

func (s *schema) addFromSpan(key string, f FromSpanFunc) {
	s.set(key, producer{kind: fromSpanProducer, fromSpan: f})
}

func (s *schema) addCachedFromSpan(key string, f CachedFromSpanFunc) {
	s.set(key, producer{kind: cachedFromSpanProducer, cached: f})
}

func (s *schema) addRawFromEvent(key string, f RawFromEventFunc) {
	s.set(key, producer{kind: rawFromEventProducer, raw: f})
}

// addDynamicFlattened registers a flatten entry under a fresh unique
// slot so that any number of them can coexist with the well-known
// slots.
func (s *schema) addDynamicFlattened(f FromEventFunc) {
	s.setFlattened(uuid.NewString(), producer{kind: fromEventProducer, fromEvent: f})
}

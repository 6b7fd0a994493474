package sfjson

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spanfmt/spanfmt-go/sfbase"
	"github.com/spanfmt/spanfmt-go/sfutil"
)

// spanNameKey is the reserved field carrying the span's name. It is
// set once at span creation and recorded values can never overwrite
// it.
const spanNameKey = "name"

// scalar is one span field coerced to its JSON form. Numeric types
// become JSON numbers, bools JSON booleans, strings JSON strings, and
// everything else its debug representation as a JSON string.
type scalar struct {
	typ sfbase.ValueType
	i   int64
	u   uint64
	f   float64
	b   bool
	s   string
}

func coerce(f sfbase.Field) scalar {
	switch f.Type {
	case sfbase.IntType:
		return scalar{typ: sfbase.IntType, i: f.Int}
	case sfbase.UintType:
		return scalar{typ: sfbase.UintType, u: f.Uint}
	case sfbase.FloatType:
		return scalar{typ: sfbase.FloatType, f: f.Float}
	case sfbase.BoolType:
		return scalar{typ: sfbase.BoolType, b: f.Bool}
	case sfbase.StringType:
		return scalar{typ: sfbase.StringType, s: f.String}
	case sfbase.TimeType:
		if t, ok := f.Any.(time.Time); ok {
			return scalar{typ: sfbase.StringType, s: t.Format(time.RFC3339Nano)}
		}
	case sfbase.ErrorType:
		if err, ok := f.Any.(error); ok {
			return scalar{typ: sfbase.StringType, s: err.Error()}
		}
	}
	return scalar{typ: sfbase.StringType, s: fmt.Sprintf("%v", f.Any)}
}

func stringScalar(s string) scalar {
	return scalar{typ: sfbase.StringType, s: s}
}

func (v scalar) appendTo(b *sfutil.JBuilder) {
	switch v.typ {
	case sfbase.IntType:
		b.AddInt64(v.i)
	case sfbase.UintType:
		b.AddUint64(v.u)
	case sfbase.FloatType:
		b.AddFloat64(v.f)
	case sfbase.BoolType:
		b.AddBool(v.b)
	default:
		b.AddString(v.s)
	}
}

// value returns the scalar as a plain Go value for structured
// serialization (merged span-field objects).
func (v scalar) value() interface{} {
	switch v.typ {
	case sfbase.IntType:
		return v.i
	case sfbase.UintType:
		return v.u
	case sfbase.FloatType:
		return v.f
	case sfbase.BoolType:
		return v.b
	default:
		return v.s
	}
}

// FieldStore holds one span's current field values plus a cached
// serialization of them as a complete JSON object. It is attached to
// the span via extensions and lives exactly as long as the span.
//
// Writes come from the single goroutine processing that span's
// lifecycle callbacks; reads (Serialized) come from any number of
// concurrent event renders. The cached serialization is swapped
// atomically so a reader sees either the value before or after an
// update, never a mix.
type FieldStore struct {
	mu      sync.Mutex
	fields  map[string]scalar
	version atomic.Uint64
	cached  atomic.Pointer[string]
}

// newFieldStore builds a store from a span's initial attributes,
// injects the name field, and serializes.
func newFieldStore(name string, fields []sfbase.Field) *FieldStore {
	s := &FieldStore{
		fields: make(map[string]scalar, len(fields)+1),
	}
	s.fields[spanNameKey] = stringScalar(name)
	for _, f := range fields {
		if f.Key == spanNameKey {
			continue
		}
		s.fields[f.Key] = coerce(f)
	}
	s.reserialize()
	return s
}

// Record applies recorded field values. A value equal to the one
// already held does not dirty the store; the cached serialization is
// regenerated once, synchronously, only if anything actually changed.
func (s *FieldStore) Record(values []sfbase.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dirty := false
	for _, f := range values {
		if f.Key == spanNameKey {
			continue
		}
		v := coerce(f)
		if old, ok := s.fields[f.Key]; ok && old == v {
			continue
		}
		s.fields[f.Key] = v
		dirty = true
	}
	if dirty {
		s.version.Add(1)
		s.reserialize()
	}
}

// reserialize must be called with s.mu held (or before the store is
// shared).
func (s *FieldStore) reserialize() {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := sfutil.JBuilder{B: make([]byte, 0, 64)}
	b.AppendByte('{')
	for _, k := range keys {
		b.AddKey(k)
		s.fields[k].appendTo(&b)
	}
	b.AppendByte('}')
	serialized := string(b.B)
	s.cached.Store(&serialized)
}

// Serialized returns the cached JSON object for this span's fields,
// braces included. Safe for concurrent use.
func (s *FieldStore) Serialized() string {
	return *s.cached.Load()
}

// Version counts how many times the fields have actually changed
// since creation.
func (s *FieldStore) Version() uint64 {
	return s.version.Load()
}

// mergeInto copies the current field values into dst, overwriting
// existing keys. Used for merged ancestor-field objects where the
// span closest to the leaf wins.
func (s *FieldStore) mergeInto(dst map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.fields {
		dst[k] = v.value()
	}
}

type fieldStoreKey struct{}

// StoreFromSpan retrieves the FieldStore a Layer attached to span, if
// any. Exposed so user producers can reach cached span data.
func StoreFromSpan(span sfbase.Span) (*FieldStore, bool) {
	v, ok := span.Extensions().Get(fieldStoreKey{})
	if !ok {
		return nil, false
	}
	store, ok := v.(*FieldStore)
	return store, ok
}

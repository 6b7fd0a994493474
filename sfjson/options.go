package sfjson

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spanfmt/spanfmt-go/sfbase"
	"github.com/spanfmt/spanfmt-go/sfutil"
)

var processName = filepath.Base(os.Args[0])

// WithUncheckedKeys(true) promises that all field and schema keys are
// free of characters that require JSON escaping, allowing faster key
// encoding.
func WithUncheckedKeys(b bool) Option {
	return func(l *Layer) {
		l.builders.FastKeys = b
	}
}

// WithValidityChecks(true) re-parses every rendered line and every
// raw or cached fragment and reports anything invalid through the
// internal error path. Meant for tests and debugging.
func WithValidityChecks(b bool) Option {
	return func(l *Layer) {
		l.validityChecks = b
	}
}

// WithLogInternalErrors(true) writes internal errors to the
// diagnostic stream (stderr unless changed) when no error func is
// set.
func WithLogInternalErrors(b bool) Option {
	return func(l *Layer) {
		l.logInternalErrors = b
	}
}

func WithDiagnosticOutput(w io.Writer) Option {
	return func(l *Layer) {
		l.diag = w
	}
}

// WithClock overrides the time source used by WithTimestamp. Tests
// use it to pin timestamps.
func WithClock(clock func() time.Time) Option {
	return func(l *Layer) {
		l.clock = clock
	}
}

func WithTimeFormatter(f TimeFormatter) Option {
	return func(l *Layer) {
		l.timeFormatter = f
	}
}

// WithTimestamp emits the render-time timestamp under key, formatted
// by the layer's TimeFormatter.
func WithTimestamp(key string) Option {
	return func(l *Layer) {
		l.schema.addRawFromEvent(key, func(_ *EventRef, b *sfutil.JBuilder) error {
			b.B = l.timeFormatter(b.B, l.clock())
			return nil
		})
	}
}

// WithLevel emits the event's level name under key. Level names are
// fixed uppercase ASCII, so they skip the escape scan.
func WithLevel(key string) Option {
	return func(l *Layer) {
		l.schema.addRawFromEvent(key, func(ref *EventRef, b *sfutil.JBuilder) error {
			b.AddSafeString(ref.Metadata().Level.String())
			return nil
		})
	}
}

// WithTarget emits the event's target under key.
func WithTarget(key string) Option {
	return func(l *Layer) {
		l.schema.addRawFromEvent(key, func(ref *EventRef, b *sfutil.JBuilder) error {
			b.AddString(ref.Metadata().Target)
			return nil
		})
	}
}

// WithFile emits the source file under key when the event carries
// one.
func WithFile(key string) Option {
	return func(l *Layer) {
		l.schema.addRawFromEvent(key, func(ref *EventRef, b *sfutil.JBuilder) error {
			if ref.Metadata().File == "" {
				return ErrSkip
			}
			b.AddString(ref.Metadata().File)
			return nil
		})
	}
}

// WithLineNumber emits the source line under key when the event
// carries one.
func WithLineNumber(key string) Option {
	return func(l *Layer) {
		l.schema.addRawFromEvent(key, func(ref *EventRef, b *sfutil.JBuilder) error {
			if ref.Metadata().Line == 0 {
				return ErrSkip
			}
			b.AddInt64(int64(ref.Metadata().Line))
			return nil
		})
	}
}

// WithGoroutineID emits the rendering goroutine's id under key.
func WithGoroutineID(key string) Option {
	return func(l *Layer) {
		l.schema.addRawFromEvent(key, func(_ *EventRef, b *sfutil.JBuilder) error {
			b.AddInt64(sfutil.GoroutineID())
			return nil
		})
	}
}

// WithThreadName emits the process name under key. Goroutines are
// anonymous, so the closest stable equivalent is the executable name.
func WithThreadName(key string) Option {
	return func(l *Layer) {
		l.schema.addRawFromEvent(key, func(_ *EventRef, b *sfutil.JBuilder) error {
			b.AddString(processName)
			return nil
		})
	}
}

// WithEventFields nests the event's own fields as an object under
// key.
func WithEventFields(key string) Option {
	return func(l *Layer) {
		l.schema.addFromEvent(key, func(ref *EventRef) (interface{}, bool) {
			return ref.FieldMap(), true
		})
	}
}

// WithFlattenedEvent splices the event's own fields into the top
// level of the line.
func WithFlattenedEvent() Option {
	return func(l *Layer) {
		l.schema.setFlattened(flattenEventSlot, producer{
			kind: fromEventProducer,
			fromEvent: func(ref *EventRef) (interface{}, bool) {
				return ref.FieldMap(), true
			},
		})
	}
}

// WithCurrentSpan nests the current span's cached fields under key.
// Omitted when the event is detached.
func WithCurrentSpan(key string) Option {
	return func(l *Layer) {
		l.schema.addCachedFromSpan(key, currentSpanFragment)
	}
}

// WithFlattenedCurrentSpan splices the current span's cached fields
// into the top level of the line.
func WithFlattenedCurrentSpan() Option {
	return func(l *Layer) {
		l.schema.setFlattened(flattenCurrentSpanSlot, producer{
			kind:   cachedFromSpanProducer,
			cached: currentSpanFragment,
		})
	}
}

// WithSpanList nests the cached fields of every span on the current
// scope, root first, as an array under key.
func WithSpanList(key string) Option {
	return func(l *Layer) {
		l.schema.addCachedFromSpan(key, spanListFragments)
	}
}

// WithFlattenedSpanFields merges the fields of every span on the
// current scope into one object under key. On key collisions the
// span closest to the event wins.
func WithFlattenedSpanFields(key string) Option {
	return func(l *Layer) {
		l.schema.addFromSpan(key, mergedSpanFields)
	}
}

// WithFlattenedSpanList splices the merged scope fields into the top
// level of the line.
func WithFlattenedSpanList() Option {
	return func(l *Layer) {
		l.schema.setFlattened(flattenSpanListSlot, producer{
			kind:     fromSpanProducer,
			fromSpan: mergedSpanFields,
		})
	}
}

// WithStaticField emits the same value under key on every line. The
// value is deep-copied at configuration time.
func WithStaticField(key string, value interface{}) Option {
	return func(l *Layer) {
		l.schema.addStatic(key, value)
	}
}

// WithDynamicField computes a value from each event.
func WithDynamicField(key string, f FromEventFunc) Option {
	return func(l *Layer) {
		l.schema.addFromEvent(key, f)
	}
}

// WithSpanField computes a value from the current span.
func WithSpanField(key string, f FromSpanFunc) Option {
	return func(l *Layer) {
		l.schema.addFromSpan(key, f)
	}
}

// WithCachedSpanField splices a pre-serialized fragment derived from
// the current span.
func WithCachedSpanField(key string, f CachedFromSpanFunc) Option {
	return func(l *Layer) {
		l.schema.addCachedFromSpan(key, f)
	}
}

// WithRawField lets f write a complete JSON value straight into the
// output buffer.
func WithRawField(key string, f RawFromEventFunc) Option {
	return func(l *Layer) {
		l.schema.addRawFromEvent(key, f)
	}
}

// WithMultipleDynamicFields splices every member of the object f
// produces into the top level of the line. May be used any number of
// times.
func WithMultipleDynamicFields(f FromEventFunc) Option {
	return func(l *Layer) {
		l.schema.addDynamicFlattened(f)
	}
}

// WithExtensionField emits a value attached to the current span's
// extensions under extKey. A nil mapper emits the stored value as is.
func WithExtensionField(key string, extKey interface{}, mapper func(interface{}) (interface{}, bool)) Option {
	return func(l *Layer) {
		l.schema.addFromSpan(key, func(span sfbase.Span) (interface{}, bool) {
			v, ok := span.Extensions().Get(extKey)
			if !ok {
				return nil, false
			}
			if mapper == nil {
				return v, true
			}
			return mapper(v)
		})
	}
}

// WithoutField removes a previously configured keyed entry.
func WithoutField(key string) Option {
	return func(l *Layer) {
		l.schema.remove(key)
	}
}

// WithSource identifies the producing program on every line as
// "name version".
func WithSource(si sfbase.SourceInfo) Option {
	return func(l *Layer) {
		l.schema.addStatic("source", si.String())
	}
}

func currentSpanFragment(span sfbase.Span) (Cached, bool) {
	store, ok := StoreFromSpan(span)
	if !ok {
		return Cached{}, false
	}
	return CachedRaw(store.Serialized()), true
}

func spanListFragments(span sfbase.Span) (Cached, bool) {
	var frags []string
	for _, s := range span.Scope() {
		if store, ok := StoreFromSpan(s); ok {
			frags = append(frags, store.Serialized())
		}
	}
	if frags == nil {
		return Cached{}, false
	}
	return CachedArray(frags), true
}

func mergedSpanFields(span sfbase.Span) (interface{}, bool) {
	m := make(map[string]interface{})
	for _, s := range span.Scope() {
		if store, ok := StoreFromSpan(s); ok {
			store.mergeInto(m)
		}
	}
	if len(m) == 0 {
		return nil, false
	}
	return m, true
}

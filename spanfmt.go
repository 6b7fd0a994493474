package spanfmt

import (
	"time"

	"github.com/spanfmt/spanfmt-go/sfbytes"
	"github.com/spanfmt/spanfmt-go/sfjson"
)

// Output keys used by the default schema.
const (
	TimestampKey   = "timestamp"
	LevelKey       = "level"
	TargetKey      = "target"
	FileKey        = "file"
	LineKey        = "line"
	ThreadIDKey    = "threadId"
	ThreadNameKey  = "threadName"
	EventFieldsKey = "fields"
	CurrentSpanKey = "span"
	SpanListKey    = "spans"
)

type config struct {
	timestamp    bool
	level        bool
	target       bool
	file         bool
	lineNumber   bool
	threadIDs    bool
	threadNames  bool
	flattenEvent bool
	currentSpan  bool
	spanList     bool
	extra        []sfjson.Option
}

// Option adjusts which entries the default schema carries.
type Option func(*config)

// WithLevel includes or excludes the level entry. On by default.
func WithLevel(b bool) Option { return func(c *config) { c.level = b } }

// WithTarget includes or excludes the target entry. On by default.
func WithTarget(b bool) Option { return func(c *config) { c.target = b } }

// WithTimestamp includes or excludes the timestamp entry. On by
// default.
func WithTimestamp(b bool) Option { return func(c *config) { c.timestamp = b } }

// WithFile includes the event's source file. Off by default.
func WithFile(b bool) Option { return func(c *config) { c.file = b } }

// WithLineNumber includes the event's source line. Off by default.
func WithLineNumber(b bool) Option { return func(c *config) { c.lineNumber = b } }

// WithThreadIDs includes the rendering goroutine's id. Off by
// default.
func WithThreadIDs(b bool) Option { return func(c *config) { c.threadIDs = b } }

// WithThreadNames includes the process name. Off by default.
func WithThreadNames(b bool) Option { return func(c *config) { c.threadNames = b } }

// FlattenEvent puts the event's fields at the top level of the line
// instead of nesting them under "fields".
func FlattenEvent(b bool) Option { return func(c *config) { c.flattenEvent = b } }

// WithCurrentSpan includes the current span's fields under "span".
// On by default.
func WithCurrentSpan(b bool) Option { return func(c *config) { c.currentSpan = b } }

// WithSpanList includes the scope's span fields as an array under
// "spans". On by default.
func WithSpanList(b bool) Option { return func(c *config) { c.spanList = b } }

// WithLogInternalErrors sends the layer's own failures to stderr.
func WithLogInternalErrors(b bool) Option {
	return func(c *config) { c.extra = append(c.extra, sfjson.WithLogInternalErrors(b)) }
}

// WithClock overrides the timestamp time source.
func WithClock(clock func() time.Time) Option {
	return func(c *config) { c.extra = append(c.extra, sfjson.WithClock(clock)) }
}

// WithTimer overrides the timestamp formatter.
func WithTimer(f sfjson.TimeFormatter) Option {
	return func(c *config) { c.extra = append(c.extra, sfjson.WithTimeFormatter(f)) }
}

// WithJSONOptions appends raw sfjson options after the defaults, for
// anything the boolean surface does not cover.
func WithJSONOptions(opts ...sfjson.Option) Option {
	return func(c *config) { c.extra = append(c.extra, opts...) }
}

// New builds a Layer with the default schema: timestamp, level, and
// target entries, event fields under "fields", the current span under
// "span", and the span list under "spans".
func New(w sfbytes.BytesWriter, opts ...Option) *sfjson.Layer {
	c := config{
		timestamp:   true,
		level:       true,
		target:      true,
		currentSpan: true,
		spanList:    true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	var jopts []sfjson.Option
	if c.timestamp {
		jopts = append(jopts, sfjson.WithTimestamp(TimestampKey))
	}
	if c.level {
		jopts = append(jopts, sfjson.WithLevel(LevelKey))
	}
	if c.target {
		jopts = append(jopts, sfjson.WithTarget(TargetKey))
	}
	if c.file {
		jopts = append(jopts, sfjson.WithFile(FileKey))
	}
	if c.lineNumber {
		jopts = append(jopts, sfjson.WithLineNumber(LineKey))
	}
	if c.threadIDs {
		jopts = append(jopts, sfjson.WithGoroutineID(ThreadIDKey))
	}
	if c.threadNames {
		jopts = append(jopts, sfjson.WithThreadName(ThreadNameKey))
	}
	if c.flattenEvent {
		jopts = append(jopts, sfjson.WithFlattenedEvent())
	} else {
		jopts = append(jopts, sfjson.WithEventFields(EventFieldsKey))
	}
	if c.currentSpan {
		jopts = append(jopts, sfjson.WithCurrentSpan(CurrentSpanKey))
	}
	if c.spanList {
		jopts = append(jopts, sfjson.WithSpanList(SpanListKey))
	}
	jopts = append(jopts, c.extra...)
	return sfjson.New(w, jopts...)
}

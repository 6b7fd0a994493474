package sfjson

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/spanfmt/spanfmt-go/sfbase"
	"github.com/spanfmt/spanfmt-go/sfutil"
)

// ErrSkip tells the renderer a raw producer has nothing to emit for
// this event. The entry is rolled back without a diagnostic.
var ErrSkip = errors.New("skip entry")

// formatEvent assembles one NDJSON line for event into b. Producers
// run in schema order: keyed entries first, then flattened entries. A
// producer that declines or fails costs only its own entry; the rest
// of the line is unaffected.
func (l *Layer) formatEvent(b *sfutil.JBuilder, event *sfbase.Event, ctx sfbase.Context) error {
	ref := &EventRef{Event: event, Ctx: ctx}
	b.AppendByte('{')
	for _, entry := range l.schema.ordered {
		if entry.flatten {
			l.renderFlattened(b, ref, entry)
		} else {
			l.renderKeyed(b, ref, entry)
		}
	}
	b.AppendByte('}')
	b.AppendByte('\n')
	if l.validityChecks && !gjson.ValidBytes(b.B) {
		return errors.Errorf("rendered line is not valid JSON: %s", b.B)
	}
	return nil
}

func (l *Layer) renderKeyed(b *sfutil.JBuilder, ref *EventRef, entry schemaEntry) {
	checkpoint := b.Len()
	switch entry.p.kind {
	case constantProducer:
		b.AddKey(entry.key)
		if err := appendEncoded(b, entry.p.constant); err != nil {
			b.Truncate(checkpoint)
			l.internalError(errors.Wrapf(err, "static field %s", entry.key))
		}
	case fromEventProducer:
		v, ok := entry.p.fromEvent(ref)
		if !ok {
			return
		}
		b.AddKey(entry.key)
		if err := appendEncoded(b, v); err != nil {
			b.Truncate(checkpoint)
			l.internalError(errors.Wrapf(err, "event field %s", entry.key))
		}
	case fromSpanProducer:
		span := ref.CurrentSpan()
		if span == nil {
			return
		}
		v, ok := entry.p.fromSpan(span)
		if !ok {
			return
		}
		b.AddKey(entry.key)
		if err := appendEncoded(b, v); err != nil {
			b.Truncate(checkpoint)
			l.internalError(errors.Wrapf(err, "span field %s", entry.key))
		}
	case cachedFromSpanProducer:
		span := ref.CurrentSpan()
		if span == nil {
			return
		}
		c, ok := entry.p.cached(span)
		if !ok {
			return
		}
		b.AddKey(entry.key)
		start := b.Len()
		appendCached(b, c)
		if l.validityChecks && !gjson.Valid(string(b.B[start:])) {
			fragment := string(b.B[start:])
			b.Truncate(checkpoint)
			l.internalError(errors.Errorf("cached field %s is not valid JSON: %s", entry.key, fragment))
		}
	case rawFromEventProducer:
		b.AddKey(entry.key)
		start := b.Len()
		if err := entry.p.raw(ref, b); err != nil {
			b.Truncate(checkpoint)
			if err != ErrSkip {
				l.internalError(errors.Wrapf(err, "raw field %s", entry.key))
			}
			return
		}
		if l.validityChecks && !gjson.Valid(string(b.B[start:])) {
			fragment := string(b.B[start:])
			b.Truncate(checkpoint)
			l.internalError(errors.Errorf("raw field %s wrote invalid JSON: %s", entry.key, fragment))
		}
	}
}

// renderFlattened produces an object and splices its members into the
// top level of the line. An empty object contributes nothing, not
// even a comma.
func (l *Layer) renderFlattened(b *sfutil.JBuilder, ref *EventRef, entry schemaEntry) {
	var serialized string
	switch entry.p.kind {
	case constantProducer:
		s, err := encodeValue(entry.p.constant)
		if err != nil {
			l.internalError(errors.Wrapf(err, "flattened static entry %s", entry.key))
			return
		}
		serialized = s
	case fromEventProducer:
		v, ok := entry.p.fromEvent(ref)
		if !ok {
			return
		}
		s, err := encodeValue(v)
		if err != nil {
			l.internalError(errors.Wrapf(err, "flattened entry %s", entry.key))
			return
		}
		serialized = s
	case fromSpanProducer:
		span := ref.CurrentSpan()
		if span == nil {
			return
		}
		v, ok := entry.p.fromSpan(span)
		if !ok {
			return
		}
		s, err := encodeValue(v)
		if err != nil {
			l.internalError(errors.Wrapf(err, "flattened span entry %s", entry.key))
			return
		}
		serialized = s
	case cachedFromSpanProducer:
		span := ref.CurrentSpan()
		if span == nil {
			return
		}
		c, ok := entry.p.cached(span)
		if !ok {
			return
		}
		if c.isArray {
			l.internalError(errors.Errorf("flattened entry %s produced an array, want an object", entry.key))
			return
		}
		serialized = c.raw
	default:
		l.internalError(errors.Errorf("flattened entry %s has an unsupported producer", entry.key))
		return
	}
	spliceObjectMembers(b, l, entry.key, serialized)
}

// spliceObjectMembers copies the members of a serialized JSON object
// into b without its surrounding braces.
func spliceObjectMembers(b *sfutil.JBuilder, l *Layer, key, serialized string) {
	if len(serialized) < 2 || serialized[0] != '{' || serialized[len(serialized)-1] != '}' {
		l.internalError(errors.Errorf("flattened entry %s produced %q, want a JSON object", key, serialized))
		return
	}
	interior := serialized[1 : len(serialized)-1]
	if interior == "" {
		return
	}
	b.Comma()
	b.AppendString(interior)
}

// appendCached splices a pre-serialized fragment. Array fragments are
// joined with commas and bracketed.
func appendCached(b *sfutil.JBuilder, c Cached) {
	if !c.isArray {
		b.AppendString(c.raw)
		return
	}
	b.AppendByte('[')
	for i, frag := range c.array {
		if i > 0 {
			b.AppendByte(',')
		}
		b.AppendString(frag)
	}
	b.AppendByte(']')
}

// appendEncoded serializes v straight into b with encoding/json,
// matching its escaping except for HTML characters. On error the
// caller rolls the buffer back.
func appendEncoded(b *sfutil.JBuilder, v interface{}) error {
	before := b.Len()
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		b.Truncate(before)
		return err
	}
	// Encode terminates with a newline that does not belong inside
	// the line.
	if b.Len() > before && b.B[b.Len()-1] == '\n' {
		b.Truncate(b.Len() - 1)
	}
	return nil
}

func encodeValue(v interface{}) (string, error) {
	var scratch sfutil.JBuilder
	if err := appendEncoded(&scratch, v); err != nil {
		return "", err
	}
	return string(scratch.B), nil
}

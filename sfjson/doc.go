// Package sfjson renders span and event callbacks as NDJSON: one JSON
// object per event, newline terminated, written to the sink in a
// single call.
//
// The output shape is a schema of keyed and flattened entries, each
// backed by a producer. Span fields are kept in a per-span FieldStore
// whose serialized form is cached and swapped atomically, so the hot
// path for an unchanged span is a verbatim splice of pre-rendered
// bytes.
package sfjson

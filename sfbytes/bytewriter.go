// Package sfbytes defines the byte-sink side of a formatting layer:
// where finished NDJSON lines go. The formatter asks for a writer per
// event so that implementations can route output on event metadata
// (level-based splitting, per-target files, and so on).
package sfbytes

import (
	"io"

	"github.com/spanfmt/spanfmt-go/sfbase"
)

type BytesWriter interface {
	// Writer returns the sink for one event's bytes. It is called
	// once per rendered event, before the single Write carrying the
	// full line.
	Writer(md *sfbase.Metadata) io.Writer

	Buffered() bool

	Close() // no point in returning an error
}

// MakeWriterFunc adapts a bare factory function to BytesWriter.
type MakeWriterFunc func(md *sfbase.Metadata) io.Writer

func (f MakeWriterFunc) Writer(md *sfbase.Metadata) io.Writer { return f(md) }
func (f MakeWriterFunc) Buffered() bool                       { return false }
func (f MakeWriterFunc) Close()                               {}

package sfbytes

import (
	"io"

	"github.com/spanfmt/spanfmt-go/sfbase"
)

var _ BytesWriter = IOWriter{}

// IOWriter routes every event to one io.Writer.
type IOWriter struct {
	w io.Writer
}

func WriteToIOWriter(w io.Writer) BytesWriter {
	return IOWriter{
		w: w,
	}
}

func (iow IOWriter) Buffered() bool                      { return false }
func (iow IOWriter) Writer(_ *sfbase.Metadata) io.Writer { return iow.w }
func (iow IOWriter) Close() {
	if wc, ok := iow.w.(io.WriteCloser); ok {
		_ = wc.Close()
	}
}

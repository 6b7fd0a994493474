// Package sfbunyan configures an sfjson.Layer to emit bunyan-format
// records: numeric levels, v/name/hostname/pid identity fields, and a
// msg on every line.
package sfbunyan

import (
	"os"

	"github.com/spanfmt/spanfmt-go/sfjson"
	"github.com/spanfmt/spanfmt-go/sfnum"
	"github.com/spanfmt/spanfmt-go/sfutil"
)

// bunyanLevel maps to the bunyan numeric scale.
func bunyanLevel(level sfnum.Level) int64 {
	switch {
	case level >= sfnum.ErrorLevel:
		return 50
	case level >= sfnum.WarnLevel:
		return 40
	case level >= sfnum.InfoLevel:
		return 30
	case level >= sfnum.DebugLevel:
		return 20
	default:
		return 10
	}
}

// Options returns the schema configuration for bunyan output under
// the given logger name. Pass the result to sfjson.New, adding any
// further options after it.
func Options(name string) []sfjson.Option {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return []sfjson.Option{
		sfjson.WithStaticField("v", 0),
		sfjson.WithStaticField("name", name),
		sfjson.WithStaticField("hostname", hostname),
		sfjson.WithStaticField("pid", os.Getpid()),
		sfjson.WithTimestamp("time"),
		sfjson.WithRawField("level", func(ref *sfjson.EventRef, b *sfutil.JBuilder) error {
			b.AddInt64(bunyanLevel(ref.Metadata().Level))
			return nil
		}),
		// bunyan requires msg on every record; events without a
		// message field fall back to their target.
		sfjson.WithRawField("msg", func(ref *sfjson.EventRef, b *sfutil.JBuilder) error {
			if msg, ok := ref.Event.Message(); ok {
				b.AddString(msg)
			} else {
				b.AddString(ref.Metadata().Target)
			}
			return nil
		}),
		sfjson.WithTarget("target"),
		sfjson.WithFile("file"),
		sfjson.WithLineNumber("line"),
		sfjson.WithEventFields("fields"),
		sfjson.WithFlattenedSpanList(),
	}
}

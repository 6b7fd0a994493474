package sfnum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanfmt/spanfmt-go/sfnum"
)

func TestLevelStrings(t *testing.T) {
	for _, level := range []sfnum.Level{
		sfnum.TraceLevel,
		sfnum.DebugLevel,
		sfnum.InfoLevel,
		sfnum.WarnLevel,
		sfnum.ErrorLevel,
	} {
		s := level.String()
		back, err := sfnum.ParseLevel(s)
		require.NoErrorf(t, err, "parse %s", s)
		assert.Equalf(t, level, back, "round trip %s", s)
	}
}

func TestLevelUnknown(t *testing.T) {
	assert.Equal(t, "LEVEL(3)", sfnum.Level(3).String())
	_, err := sfnum.ParseLevel("NOPE")
	assert.Error(t, err)
}

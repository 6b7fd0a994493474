package sfbase_test

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanfmt/spanfmt-go/sfbase"
)

func TestEventMessage(t *testing.T) {
	ev := &sfbase.Event{
		Metadata: &sfbase.Metadata{Target: "app"},
		Fields: []sfbase.Field{
			sfbase.Int("message", 5),
			sfbase.String("message", "real one"),
		},
	}
	msg, ok := ev.Message()
	require.True(t, ok)
	assert.Equal(t, "real one", msg)

	empty := &sfbase.Event{Metadata: ev.Metadata}
	_, ok = empty.Message()
	assert.False(t, ok)
}

func TestSourceInfoString(t *testing.T) {
	v := semver.MustParse("1.2.3")
	assert.Equal(t, "myprog 1.2.3", sfbase.SourceInfo{Source: "myprog", SourceVersion: v}.String())
	assert.Equal(t, "myprog", sfbase.SourceInfo{Source: "myprog"}.String())
}

func TestExtensions(t *testing.T) {
	type keyA struct{}
	type keyB struct{}
	var ext sfbase.Extensions

	_, ok := ext.Get(keyA{})
	assert.False(t, ok)

	ext.Set(keyA{}, 7)
	ext.Set(keyB{}, "x")
	v, ok := ext.Get(keyA{})
	require.True(t, ok)
	assert.Equal(t, 7, v)

	ext.Delete(keyA{})
	_, ok = ext.Get(keyA{})
	assert.False(t, ok)
	_, ok = ext.Get(keyB{})
	assert.True(t, ok)
}

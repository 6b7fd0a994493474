package sfjson

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/spanfmt/spanfmt-go/sfbase"
)

func TestFieldStoreInitialSerialization(t *testing.T) {
	store := newFieldStore("json_span", []sfbase.Field{
		sfbase.Int("answer", 42),
		sfbase.Int("number", 3),
	})
	assert.Equal(t, `{"answer":42,"name":"json_span","number":3}`, store.Serialized())
	assert.Equal(t, uint64(0), store.Version())
}

func TestFieldStoreRecordUpdates(t *testing.T) {
	store := newFieldStore("busy", nil)
	assert.Equal(t, `{"name":"busy"}`, store.Serialized())

	store.Record([]sfbase.Field{sfbase.String("status", "running")})
	assert.Equal(t, `{"name":"busy","status":"running"}`, store.Serialized())
	assert.Equal(t, uint64(1), store.Version())

	store.Record([]sfbase.Field{sfbase.String("status", "done")})
	assert.Equal(t, `{"name":"busy","status":"done"}`, store.Serialized())
	assert.Equal(t, uint64(2), store.Version())
}

func TestFieldStoreUnchangedValueDoesNotDirty(t *testing.T) {
	store := newFieldStore("s", []sfbase.Field{sfbase.Int("n", 1)})
	before := store.Serialized()
	store.Record([]sfbase.Field{sfbase.Int("n", 1)})
	assert.Equal(t, uint64(0), store.Version())
	assert.Equal(t, before, store.Serialized())
}

func TestFieldStoreNameImmutable(t *testing.T) {
	store := newFieldStore("original", []sfbase.Field{
		sfbase.String("name", "sneaky"),
	})
	assert.Equal(t, `{"name":"original"}`, store.Serialized())
	store.Record([]sfbase.Field{sfbase.String("name", "sneakier")})
	assert.Equal(t, `{"name":"original"}`, store.Serialized())
	assert.Equal(t, uint64(0), store.Version())
}

func TestFieldStoreValueCoercion(t *testing.T) {
	when := time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
	store := newFieldStore("c", []sfbase.Field{
		sfbase.Bool("flag", true),
		sfbase.Float64("ratio", 0.5),
		sfbase.Uint64("big", 18446744073709551615),
		sfbase.Time("at", when),
		sfbase.Error("cause", errors.New("boom")),
		sfbase.Any("anything", []int{1, 2}),
	})
	assert.Equal(t,
		`{"anything":"[1 2]","at":"2020-03-04T05:06:07Z","big":18446744073709551615,`+
			`"cause":"boom","flag":true,"name":"c","ratio":0.5}`,
		store.Serialized())
}

func TestFieldStoreMergeInto(t *testing.T) {
	parent := newFieldStore("outer", []sfbase.Field{sfbase.Int("depth", 1), sfbase.Int("shared", 10)})
	child := newFieldStore("inner", []sfbase.Field{sfbase.Int("shared", 20)})
	m := make(map[string]interface{})
	parent.mergeInto(m)
	child.mergeInto(m)
	assert.Equal(t, int64(1), m["depth"])
	assert.Equal(t, int64(20), m["shared"])
	assert.Equal(t, "inner", m["name"])
}

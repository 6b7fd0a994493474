package sfutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spanfmt/spanfmt-go/sfutil"
)

func TestGoroutineID(t *testing.T) {
	id := sfutil.GoroutineID()
	assert.Greater(t, id, int64(0))
	assert.Equal(t, id, sfutil.GoroutineID())

	other := make(chan int64)
	go func() {
		other <- sfutil.GoroutineID()
	}()
	assert.NotEqual(t, id, <-other)
}

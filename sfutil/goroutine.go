package sfutil

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// GoroutineID returns the current goroutine's id as reported by the
// runtime. There is no supported API for this; the id is parsed out of
// the first line of a stack dump ("goroutine 18 [running]:"). It is
// intended for log annotation only, never for program logic.
func GoroutineID() int64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	s := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	i := bytes.IndexByte(s, ' ')
	if i < 0 {
		return -1
	}
	id, err := strconv.ParseInt(string(s[:i]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}

package sfutil

import "sync"

const (
	defaultMinBuffer = 1024
	maxBufferToKeep  = 1024 * 10
)

// BufferPool hands out reusable JBuilders for assembling one log line.
// A buffer is exclusively owned between Get and Put so reentrant use
// (the sink write itself triggering another event) simply receives a
// fresh buffer instead of corrupting a shared one. Oversized buffers
// are dropped on Put rather than retained.
type BufferPool struct {
	pool     sync.Pool
	FastKeys bool
}

func (p *BufferPool) Get() *JBuilder {
	bRaw := p.pool.Get()
	if bRaw != nil {
		b := bRaw.(*JBuilder)
		b.Reset()
		return b
	}
	return &JBuilder{
		B:        make([]byte, 0, defaultMinBuffer),
		FastKeys: p.FastKeys,
	}
}

func (p *BufferPool) Put(b *JBuilder) {
	if cap(b.B) > maxBufferToKeep {
		return
	}
	p.pool.Put(b)
}

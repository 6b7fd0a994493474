package sfbase

import "sync"

// Extensions is a keyed heterogeneous side-table owned by the host,
// one per span. Layers use private key values (context.Context style)
// to attach state to a span without the host knowing the type.
type Extensions struct {
	mu sync.RWMutex
	m  map[interface{}]interface{}
}

func (e *Extensions) Get(key interface{}) (interface{}, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.m[key]
	return v, ok
}

func (e *Extensions) Set(key, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.m == nil {
		e.m = make(map[interface{}]interface{})
	}
	e.m[key] = value
}

func (e *Extensions) Delete(key interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.m, key)
}

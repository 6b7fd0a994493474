package sfjson

// Cached is a pre-serialized JSON fragment handed back by a
// CachedFromSpanFunc. The renderer splices it into the output line
// verbatim, so the producer is on the hook for its validity.
//
// A raw fragment is one complete JSON value. An array fragment is a
// list of complete JSON values that the renderer joins with commas
// and wraps in brackets.
type Cached struct {
	raw     string
	array   []string
	isArray bool
}

func CachedRaw(fragment string) Cached {
	return Cached{raw: fragment}
}

func CachedArray(fragments []string) Cached {
	return Cached{array: fragments, isArray: true}
}

package pathutil

import "sync"

const (
	// TrueNAS method schemas rarely nest deeper than a handful of levels.
	initialDepth = 8
	// Builders that grew past this depth are left to the GC.
	poolDepthLimit = 64
)

var builders = sync.Pool{
	New: func() any {
		return &PathBuilder{segments: make([]string, 0, initialDepth)}
	},
}

// Get returns an empty PathBuilder from the pool.
func Get() *PathBuilder {
	b := builders.Get().(*PathBuilder)
	b.Reset()
	return b
}

// Put hands b back to the pool. Nil and oversized builders are dropped.
func Put(b *PathBuilder) {
	if b == nil || cap(b.segments) > poolDepthLimit {
		return
	}
	builders.Put(b)
}

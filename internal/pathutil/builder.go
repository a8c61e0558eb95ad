package pathutil

import (
	"strconv"
	"strings"
)

// Root is the path of the document root.
const Root = "$"

// PathBuilder provides efficient incremental path construction.
// Uses push/pop semantics to avoid allocations during traversal.
// The full string is only materialized when String() is called.
type PathBuilder struct {
	segments []string
	length   int // Pre-calculated length for String() allocation
}

// Push adds a mapping key segment to the path.
func (p *PathBuilder) Push(key string) {
	var seg string
	if isPlainKey(key) {
		seg = "." + key
	} else {
		seg = "['" + strings.ReplaceAll(key, "'", `\'`) + "']"
	}
	p.segments = append(p.segments, seg)
	p.length += len(seg)
}

// PushIndex adds a sequence index segment: "[0]", "[1]", etc.
func (p *PathBuilder) PushIndex(i int) {
	seg := "[" + strconv.Itoa(i) + "]"
	p.segments = append(p.segments, seg)
	p.length += len(seg)
}

// Pop removes the last segment.
func (p *PathBuilder) Pop() {
	if len(p.segments) == 0 {
		return
	}
	last := p.segments[len(p.segments)-1]
	p.segments = p.segments[:len(p.segments)-1]
	p.length -= len(last)
}

// Depth returns the number of segments below the root.
func (p *PathBuilder) Depth() int {
	return len(p.segments)
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
	p.length = 0
}

// String materializes the full path. Only call when the path is needed.
func (p *PathBuilder) String() string {
	if len(p.segments) == 0 {
		return Root
	}
	var b strings.Builder
	b.Grow(len(Root) + p.length)
	b.WriteString(Root)
	for _, seg := range p.segments {
		b.WriteString(seg)
	}
	return b.String()
}

// isPlainKey reports whether key can be written in dot notation.
func isPlainKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$', c == '-':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

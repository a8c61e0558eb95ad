package normalizer

import (
	"strings"

	"go.yaml.in/yaml/v4"
)

// fields is a copy-on-write view of a mapping node's key/value pairs.
// Rules edit the view; the source node is never touched. Values keep
// their position when replaced and new keys are appended, so source
// key order survives normalization. Aliased keys are stored resolved.
type fields struct {
	keys   []*yaml.Node
	values []*yaml.Node
}

func fieldsOf(n *yaml.Node) *fields {
	f := &fields{
		keys:   make([]*yaml.Node, 0, len(n.Content)/2),
		values: make([]*yaml.Node, 0, len(n.Content)/2),
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		f.keys = append(f.keys, resolve(n.Content[i]))
		f.values = append(f.values, n.Content[i+1])
	}
	return f
}

func (f *fields) index(key string) int {
	for i, k := range f.keys {
		if k.Value == key {
			return i
		}
	}
	return -1
}

// get returns the value for key with aliases resolved, or nil.
func (f *fields) get(key string) *yaml.Node {
	if i := f.index(key); i >= 0 {
		return resolve(f.values[i])
	}
	return nil
}

func (f *fields) has(key string) bool {
	return f.index(key) >= 0
}

func (f *fields) set(key string, v *yaml.Node) {
	if i := f.index(key); i >= 0 {
		f.values[i] = v
		return
	}
	f.keys = append(f.keys, strNode(key))
	f.values = append(f.values, v)
}

func (f *fields) del(key string) {
	i := f.index(key)
	if i < 0 {
		return
	}
	f.keys = append(f.keys[:i:i], f.keys[i+1:]...)
	f.values = append(f.values[:i:i], f.values[i+1:]...)
}

func (f *fields) len() int {
	return len(f.keys)
}

// node assembles a mapping node from the view. Keys and values are shared,
// not copied.
func (f *fields) node() *yaml.Node {
	out := mapNode()
	out.Content = make([]*yaml.Node, 0, 2*len(f.keys))
	for i := range f.keys {
		out.Content = append(out.Content, f.keys[i], f.values[i])
	}
	return out
}

// resolve follows alias nodes to their anchored value.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isScalar(n *yaml.Node, tag string) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == tag
}

func isString(n *yaml.Node, value string) bool {
	return isScalar(n, "!!str") && n.Value == value
}

func isNull(n *yaml.Node) bool {
	return isScalar(n, "!!null")
}

func isFalse(n *yaml.Node) bool {
	return isScalar(n, "!!bool") && strings.EqualFold(n.Value, "false")
}

func isEmptyMapping(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.MappingNode && len(n.Content) == 0
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func boolNode(v bool) *yaml.Node {
	s := "false"
	if v {
		s = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}
}

func mapNode(kv ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: kv}
}

func seqNode(items ...*yaml.Node) *yaml.Node {
	if items == nil {
		items = []*yaml.Node{}
	}
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

// cloneScalar copies a scalar without its anchor, comments or style.
func cloneScalar(n *yaml.Node) *yaml.Node {
	return &yaml.Node{
		Kind:   n.Kind,
		Tag:    n.Tag,
		Value:  n.Value,
		Line:   n.Line,
		Column: n.Column,
	}
}

// copyKey copies a mapping key. Complex keys are deep-copied verbatim; they
// are not schemas and are never rewritten.
func copyKey(n *yaml.Node) *yaml.Node {
	n = resolve(n)
	if n.Kind == yaml.ScalarNode {
		return cloneScalar(n)
	}
	out := &yaml.Node{Kind: n.Kind, Tag: n.Tag, Value: n.Value, Line: n.Line, Column: n.Column}
	for _, c := range n.Content {
		out.Content = append(out.Content, copyKey(c))
	}
	return out
}

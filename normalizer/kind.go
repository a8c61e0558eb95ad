package normalizer

import (
	"strings"

	"go.yaml.in/yaml/v4"
)

// Kind classifies the value shape a schema node declares.
//
// A node may declare both shapes (type: [array, object]), so Kind is a small
// bit set over the closed enumeration {KindObject, KindArray}; KindOther is
// the empty set.
//
// Query a Kind with Is only. Do not switch on Kind values or compare them
// with ==: KindObject|KindArray matches neither case.
type Kind uint8

const (
	// KindObject marks a schema describing a mapping-shaped value.
	KindObject Kind = 1 << iota
	// KindArray marks a schema describing a sequence-shaped value.
	KindArray
)

// KindOther is a schema that declares neither object nor array.
const KindOther Kind = 0

// Is reports whether k includes every bit of want.
func (k Kind) Is(want Kind) bool {
	return want != KindOther && k&want == want
}

// String returns a human-readable name such as "object" or "object|array".
func (k Kind) String() string {
	if k == KindOther {
		return "other"
	}
	var parts []string
	if k&KindObject != 0 {
		parts = append(parts, "object")
	}
	if k&KindArray != 0 {
		parts = append(parts, "array")
	}
	return strings.Join(parts, "|")
}

// Classify returns the Kind declared by a schema mapping. Non-mapping nodes
// are KindOther.
//
// A node is object-typed when `type` is "object", when a list-valued `type`
// contains "object", or when "object" appears as a bare string entry of
// `anyOf` or `oneOf`. Array-typed is the same check for "array". Schema
// objects inside anyOf/oneOf are not inspected.
func Classify(n *yaml.Node) Kind {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return KindOther
	}
	return classify(fieldsOf(n))
}

func classify(f *fields) Kind {
	var k Kind
	mark := func(n *yaml.Node) {
		switch {
		case isString(n, "object"):
			k |= KindObject
		case isString(n, "array"):
			k |= KindArray
		}
	}

	if t := f.get("type"); t != nil {
		switch t.Kind {
		case yaml.ScalarNode:
			mark(t)
		case yaml.SequenceNode:
			for _, e := range t.Content {
				mark(resolve(e))
			}
		}
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		if list := f.get(key); list != nil && list.Kind == yaml.SequenceNode {
			for _, e := range list.Content {
				mark(resolve(e))
			}
		}
	}
	return k
}

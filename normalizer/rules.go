package normalizer

import (
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/ammmze/truenas-openapi/schemaerrors"
)

// pruneEmptyObject reports whether the schema is an object that can hold
// nothing: no properties (absent or {}) and additionalProperties: false.
// Such a schema is dropped from its parent.
func (w *walker) pruneEmptyObject(f *fields) bool {
	if !w.enabled(RulePruneEmptyObject) || !classify(f).Is(KindObject) {
		return false
	}
	if props := f.get("properties"); props != nil && !isEmptyMapping(props) {
		return false
	}
	if !isFalse(f.get("additionalProperties")) {
		return false
	}
	w.record(RulePruneEmptyObject, "removed object schema with no properties and additionalProperties: false")
	return true
}

// splitTypeArray rewrites a list-valued type. "null" becomes nullable: true,
// a single remaining type becomes a plain type, several become oneOf
// variants. Type-specific keywords such as items stay where they are.
func (w *walker) splitTypeArray(f *fields) error {
	if !w.enabled(RuleSplitTypeArray) {
		return nil
	}
	t := f.get("type")
	if t == nil || t.Kind != yaml.SequenceNode {
		return nil
	}

	nullable := false
	remaining := make([]*yaml.Node, 0, len(t.Content))
	for _, e := range t.Content {
		e = resolve(e)
		if isNullType(e) {
			nullable = true
			continue
		}
		remaining = append(remaining, e)
	}
	if len(remaining) == 0 {
		return &schemaerrors.InvalidTypeListError{
			Path:   w.path.String(),
			Types:  typeNames(t),
			Line:   t.Line,
			Column: t.Column,
		}
	}

	if nullable {
		f.set("nullable", boolNode(true))
	}
	if len(remaining) == 1 {
		f.set("type", remaining[0])
	} else {
		variants := make([]*yaml.Node, 0, len(remaining))
		for _, r := range remaining {
			variants = append(variants, mapNode(strNode("type"), r))
		}
		f.del("type")
		f.set("oneOf", seqNode(variants...))
	}
	w.record(RuleSplitTypeArray, "rewrote type [%s]", strings.Join(typeNames(t), ", "))
	return nil
}

// normalizeItems gives array schemas a single items schema: one entry is
// unwrapped, several are wrapped in anyOf, none becomes {}.
func (w *walker) normalizeItems(f *fields) {
	if !w.enabled(RuleNormalizeItems) || !classify(f).Is(KindArray) {
		return
	}
	items := f.get("items")
	if items != nil && items.Kind != yaml.SequenceNode {
		return
	}

	switch {
	case items == nil:
		f.set("items", mapNode())
		w.record(RuleNormalizeItems, "added empty items schema")
	case len(items.Content) == 0:
		f.set("items", mapNode())
		w.record(RuleNormalizeItems, "replaced empty items list with empty schema")
	case len(items.Content) == 1:
		f.set("items", items.Content[0])
		w.record(RuleNormalizeItems, "unwrapped single-entry items list")
	default:
		f.set("items", mapNode(strNode("anyOf"), items))
		w.record(RuleNormalizeItems, "wrapped %d items entries in anyOf", len(items.Content))
	}
}

// pruneEmptyDefault drops a null or {} default from object schemas.
func (w *walker) pruneEmptyDefault(f *fields) {
	if !w.enabled(RulePruneEmptyDefault) || !f.has("default") || !classify(f).Is(KindObject) {
		return
	}
	d := f.get("default")
	if !isNull(d) && !isEmptyMapping(d) {
		return
	}
	f.del("default")
	w.record(RulePruneEmptyDefault, "removed empty default from object schema")
}

// mergeAnyOfEnum folds anyOf entries of the form {type: string[, enum: [...]]}
// into the outer enum. If nothing else remains in anyOf the node becomes a
// plain string enum; otherwise the merged enum becomes the first anyOf entry.
func (w *walker) mergeAnyOfEnum(f *fields) {
	if !w.enabled(RuleMergeAnyOfEnum) {
		return
	}
	enum, anyOf := f.get("enum"), f.get("anyOf")
	if enum == nil || anyOf == nil || enum.Kind != yaml.SequenceNode || anyOf.Kind != yaml.SequenceNode {
		return
	}

	merged := append([]*yaml.Node(nil), enum.Content...)
	var kept []*yaml.Node
	for _, entry := range anyOf.Content {
		values, ok := mergeableEnum(resolve(entry))
		if !ok {
			kept = append(kept, entry)
			continue
		}
		merged = append(merged, values...)
	}

	if len(kept) == 0 {
		f.del("anyOf")
		f.set("enum", seqNode(merged...))
		f.set("type", strNode("string"))
		w.record(RuleMergeAnyOfEnum, "merged %d anyOf entries into a string enum of %d values",
			len(anyOf.Content), len(merged))
		return
	}

	variants := make([]*yaml.Node, 0, len(kept)+1)
	variants = append(variants, mapNode(
		strNode("type"), strNode("string"),
		strNode("enum"), seqNode(merged...),
	))
	variants = append(variants, kept...)
	f.del("enum")
	f.del("type")
	f.set("anyOf", seqNode(variants...))
	w.record(RuleMergeAnyOfEnum, "moved enum of %d values into anyOf, keeping %d entries",
		len(merged), len(kept))
}

// mergeableEnum reports whether an anyOf entry only says "a string, maybe
// from this enum". It returns the entry's enum values when it does. A null
// enum contributes nothing; any other non-list enum makes the entry opaque.
func mergeableEnum(entry *yaml.Node) ([]*yaml.Node, bool) {
	if entry == nil || entry.Kind != yaml.MappingNode {
		return nil, false
	}
	f := fieldsOf(entry)
	for _, k := range f.keys {
		if k.Value != "type" && k.Value != "enum" {
			return nil, false
		}
	}
	if !isString(f.get("type"), "string") {
		return nil, false
	}
	values := f.get("enum")
	switch {
	case values == nil || isNull(values):
		return nil, true
	case values.Kind == yaml.SequenceNode:
		return values.Content, true
	default:
		return nil, false
	}
}

// isNullType matches both the string "null" and a YAML null, since an
// unquoted null in a YAML flow list parses as the latter.
func isNullType(n *yaml.Node) bool {
	return isString(n, "null") || isNull(n)
}

func typeNames(t *yaml.Node) []string {
	names := make([]string, 0, len(t.Content))
	for _, e := range t.Content {
		e = resolve(e)
		switch {
		case isNull(e):
			names = append(names, "null")
		case e.Kind == yaml.ScalarNode:
			names = append(names, e.Value)
		default:
			names = append(names, "<"+kindName(e.Kind)+">")
		}
	}
	return names
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	default:
		return "node"
	}
}

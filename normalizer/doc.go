// Package normalizer rewrites JSON-Schema-shaped documents into the restricted
// schema dialect accepted by strict OpenAPI consumers such as code generators.
//
// The normalizer works on parsed YAML/JSON trees ([go.yaml.in/yaml/v4] nodes)
// and never performs I/O; see the cleaner package for file handling. Input
// trees are never modified: every call returns freshly allocated nodes, so a
// Normalizer may be used concurrently on independent documents.
//
// # Quick Start
//
//	var doc yaml.Node
//	if err := yaml.Unmarshal(data, &doc); err != nil {
//		log.Fatal(err)
//	}
//	out, err := normalizer.Normalize(&doc)
//	if err != nil {
//		log.Fatal(err) // *schemaerrors.InvalidTypeListError
//	}
//	if out == nil {
//		// the whole document was pruned
//	}
//
// Use a configured Normalizer to restrict rules or collect a change log:
//
//	n := normalizer.New()
//	n.Logger = normalizer.NewSlogAdapter(slog.Default())
//	result, err := n.Normalize(&doc)
//	fmt.Printf("%d changes\n", result.ChangeCount)
//
// # Rules
//
// Every mapping runs through the following rules, in this order, before its
// values are normalized:
//
//   - prune-empty-object: an object schema with no properties and
//     additionalProperties: false is removed from its parent.
//   - split-type-array: type: [string, "null"] becomes type: string with
//     nullable: true; several non-null types become oneOf variants. A list
//     holding only "null" is an error.
//   - normalize-items: array schemas get a single items schema; one-entry
//     lists are unwrapped, longer lists become {anyOf: [...]}, and missing
//     items become {}.
//   - prune-empty-default: default: null and default: {} are removed from
//     object schemas.
//   - merge-anyof-enum: anyOf entries that only say "string, maybe with an
//     enum" are folded into the outer enum.
//
// The keys _name_, _required_ and _attrs_order_ are removed at every depth.
//
// After the values are normalized, the shape rules (prune-empty-object,
// normalize-items, prune-empty-default, merge-anyof-enum) are checked once
// more against the assembled node, so normalizing an already normalized
// tree changes nothing.
//
// # Absent Nodes
//
// A node that normalizes to nothing is returned as nil. Mapping values and
// sequence elements that are nil are omitted from their parent; they never
// become null.
package normalizer

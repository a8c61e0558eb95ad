// Package document reads and writes schema documents as yaml.Node trees.
//
// Both YAML and JSON sources are parsed through go.yaml.in/yaml/v4, so key
// order and source positions are available to the normalizer regardless of
// the input format.
//
// # Quick Start
//
//	doc, err := document.ParseFile("schemas/original/pool.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, err := normalizer.Normalize(doc.Node)
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, err := document.Marshal(out, doc.Format)
//
// # Output
//
// [Marshal] writes YAML with two-space indentation, or JSON indented by two
// spaces with keys in the order they appear in the tree. Anchors, aliases and
// comments are not reproduced.
package document

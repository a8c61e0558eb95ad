// Package pathutil provides path utilities for schema document traversal.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// JSONPath-style locations ("$.properties.owner.items[0]") incrementally
// without allocating intermediate strings. Paths are only materialized when
// a diagnostic needs one.
//
// Use [Get] to obtain a pooled PathBuilder, and [Put] to return it:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("properties")
//	path.Push(propName)
//	// ... recurse ...
//	path.Pop()
//	path.Pop()
//
// Keys that are not plain identifiers are written in bracket notation, so a
// property named "a.b" renders as $.properties['a.b'].
//
// # Output Paths
//
// [SanitizeOutputPath] validates output file paths before writing and
// [MirrorPath] maps a file under one tree root onto the same relative
// location under another.
package pathutil

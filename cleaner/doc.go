// Package cleaner applies the normalizer to schema files and directory trees.
//
// A single document is cleaned with [CleanWithOptions] or a reusable
// [Cleaner]:
//
//	result, err := cleaner.CleanWithOptions(
//		cleaner.WithFilePath("schemas/original/pool.yaml"),
//		cleaner.WithOutputPath("schemas/clean/pool.yaml"),
//		cleaner.WithAbsentPolicy(cleaner.AbsentError),
//	)
//
// Whole trees are cleaned with [CleanTree], which mirrors every *.yml and
// *.yaml document under the source directory into the destination directory:
//
//	res, err := cleaner.CleanTree(ctx, "schemas/original", "schemas/clean", cleaner.TreeConfig{Jobs: 4})
//
// Documents listed in a .cleanignore file at the root of the source tree
// (gitignore syntax) are skipped.
//
// # Absent documents
//
// A document whose root normalizes to nothing is handled by [AbsentPolicy]:
// omitted (the default), written as an empty document, or reported as a
// *schemaerrors.AbsentDocumentError.
package cleaner

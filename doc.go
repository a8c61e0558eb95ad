// Package truenasopenapi cleans the JSON Schemas published by the TrueNAS
// middleware so that OpenAPI 3.0 code generators accept them.
//
// TrueNAS describes its API methods with JSON Schema documents that use
// constructs OpenAPI 3.0 cannot express: type lists such as
// ["string", "null"], positional items arrays, anyOf lists of single-value
// enums, and internal bookkeeping keys like _name_ and _required_. The tools
// in this module rewrite those constructs into their OpenAPI 3.0 equivalents
// without changing what the schemas accept.
//
// # Packages
//
//   - normalizer: the schema rewrite itself, operating on YAML nodes
//   - document: parsing and serializing YAML or JSON schema documents
//   - cleaner: file and tree level cleaning with concurrency and ignore files
//   - schemaerrors: error types shared by the packages above
//
// # Quick Start
//
// Clean one document:
//
//	result, err := cleaner.CleanWithOptions(
//		cleaner.WithFilePath("schemas/original/pool.yaml"),
//		cleaner.WithOutputPath("schemas/clean/pool.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d changes\n", result.ChangeCount)
//
// Clean a whole tree:
//
//	res, err := cleaner.CleanTree(ctx, "schemas/original", "schemas/clean", cleaner.TreeConfig{Jobs: 4})
//
// Normalize an in-memory node:
//
//	out, err := normalizer.Normalize(node)
//
// # Command Line
//
// The truenas-openapi command wraps the same operations:
//
//	truenas-openapi clean schemas/original/pool.yaml -o schemas/clean/pool.yaml
//	truenas-openapi clean-all
//	truenas-openapi mcp
//
// Settings can be placed in a truenas-openapi.toml file or supplied through
// TRUENAS_OPENAPI_* environment variables.
package truenasopenapi

// Package schemaerrors provides structured error types for the schema normalizer.
//
// Import path: github.com/ammmze/truenas-openapi/schemaerrors
//
// Callers distinguish error categories with [errors.Is] and extract details
// with [errors.As]:
//
//   - [InvalidTypeListError]: a `type` list held nothing but "null"
//   - [ParseError]: the input document could not be parsed as YAML or JSON
//   - [AbsentDocumentError]: the whole document normalized to nothing and the
//     caller asked for that to be an error
//   - [ConfigError]: invalid options or configuration
//
// # Sentinel Errors
//
//   - [ErrInvalidTypeList]: matches any [InvalidTypeListError]
//   - [ErrParse]: matches any [ParseError]
//   - [ErrAbsentDocument]: matches any [AbsentDocumentError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage
//
//	out, err := normalizer.Normalize(root)
//	var typeErr *schemaerrors.InvalidTypeListError
//	if errors.As(err, &typeErr) {
//	    fmt.Printf("bad type list at %s\n", typeErr.Path)
//	}
package schemaerrors

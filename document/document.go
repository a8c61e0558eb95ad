package document

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/ammmze/truenas-openapi/schemaerrors"
)

// Document is a parsed schema document.
type Document struct {
	// Node is the document node, or nil when the source held no document
	Node *yaml.Node
	// Format is the detected source format
	Format SourceFormat
	// SourcePath is the file the document was read from ("" for in-memory input)
	SourcePath string
	// Size is the size of the source in bytes
	Size int
}

// IsEmpty reports whether the source held no document.
func (d *Document) IsEmpty() bool {
	return d.Node == nil
}

// Root returns the root value of the document, or nil for an empty document.
func (d *Document) Root() *yaml.Node {
	if d.Node == nil || len(d.Node.Content) == 0 {
		return nil
	}
	return d.Node.Content[0]
}

// Parse parses YAML or JSON bytes. The format is detected from content.
func Parse(data []byte) (*Document, error) {
	return parse(data, "", FormatFromContent(data))
}

// ParseReader reads r to EOF and parses the result.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("document: failed to read input: %w", err)
	}
	return Parse(data)
}

// ParseFile reads and parses the file at path. The format is taken from the
// file extension and falls back to content detection.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304 - path is user-provided input (CLI)
	if err != nil {
		return nil, fmt.Errorf("document: failed to read file: %w", err)
	}
	format := FormatFromPath(path)
	if format == SourceFormatUnknown {
		format = FormatFromContent(data)
	}
	return parse(data, path, format)
}

func parse(data []byte, path string, format SourceFormat) (*Document, error) {
	doc := &Document{
		Format:     format,
		SourcePath: path,
		Size:       len(data),
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &schemaerrors.ParseError{
			Path:    path,
			Line:    errorLine(err),
			Message: "failed to parse YAML/JSON",
			Cause:   err,
		}
	}
	// Empty input (or a stream of only comments) yields a zero node.
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return doc, nil
	}
	doc.Node = &root
	return doc, nil
}

// errorLine extracts the line number from a yaml error message of the form
// "yaml: line 3: ...". It returns 0 when no line is present.
func errorLine(err error) int {
	_, rest, ok := strings.Cut(err.Error(), "line ")
	if !ok {
		return 0
	}
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(rest)
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0
	}
	return n
}

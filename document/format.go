package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// SourceFormat represents the serialization format of a schema document.
type SourceFormat string

const (
	// SourceFormatYAML indicates a YAML document
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates a JSON document
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseFormat converts a format name ("yaml", "yml" or "json") into a
// SourceFormat. An empty name yields SourceFormatUnknown.
func ParseFormat(name string) (SourceFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return SourceFormatUnknown, nil
	case "yaml", "yml":
		return SourceFormatYAML, nil
	case "json":
		return SourceFormatJSON, nil
	default:
		return SourceFormatUnknown, fmt.Errorf("document: unknown format %q (expected yaml or json)", name)
	}
}

// FormatFromPath detects the format from a file extension.
func FormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// FormatFromContent detects the format from the content bytes.
// JSON starts with '{' or '[' after leading whitespace; anything else
// non-empty is treated as YAML.
func FormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

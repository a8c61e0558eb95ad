package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// yamlIndent is the indentation used for YAML output.
const yamlIndent = 2

// Marshal serializes node in the given format. SourceFormatUnknown is
// written as YAML. A nil node marshals to an empty document: no bytes for
// YAML and "{}" for JSON.
func Marshal(node *yaml.Node, format SourceFormat) ([]byte, error) {
	if format == SourceFormatJSON {
		return MarshalJSON(node)
	}
	return MarshalYAML(node)
}

// MarshalYAML writes node as YAML with two-space indentation.
func MarshalYAML(node *yaml.Node) ([]byte, error) {
	if node == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("document: failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON writes node as indented JSON, keeping mapping keys in tree
// order. The output ends with a newline.
func MarshalJSON(node *yaml.Node) ([]byte, error) {
	if node == nil {
		return []byte("{}\n"), nil
	}
	var compact bytes.Buffer
	if err := marshalNodeAsJSON(&compact, node); err != nil {
		return nil, fmt.Errorf("document: failed to marshal JSON: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("document: failed to marshal JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// marshalNodeAsJSON writes a yaml.Node to buf as compact JSON. Mapping keys
// are written in node order; scalars are decoded and re-encoded so numbers,
// booleans and nulls keep their JSON types.
func marshalNodeAsJSON(buf *bytes.Buffer, node *yaml.Node) error {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return marshalNodeAsJSON(buf, node.Content[0])

	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, node.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := marshalNodeAsJSON(buf, node.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalNodeAsJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return err
		}
		return writeJSON(buf, v)
	}
}

// writeJSON marshals a value to JSON and writes it to the buffer without
// escaping HTML characters.
func writeJSON(buf *bytes.Buffer, v any) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
	return nil
}

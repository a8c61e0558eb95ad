// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

// PoolCreateSchema is a TrueNAS method schema that triggers three changes:
// an internal _name_ key, a nullable type list and a positional items list.
const PoolCreateSchema = `_name_: pool_create
type: object
properties:
  name:
    type: [string, "null"]
  topology:
    type: array
    items: [{type: string}]
`

// PoolCreateCleaned is PoolCreateSchema after normalization.
const PoolCreateCleaned = `type: object
properties:
  name: {type: string, nullable: true}
  topology: {type: array, items: {type: string}}
`

// DatasetSchema is a nullable object schema with one property.
const DatasetSchema = "type: [object, \"null\"]\nproperties: {name: {type: string}}\n"

// EmptyObjectSchema normalizes to nothing.
const EmptyObjectSchema = "type: object\nproperties: {}\nadditionalProperties: false\n"

// InvalidTypeListSchema holds a type list with nothing but "null" at
// $.properties.x.
const InvalidTypeListSchema = "properties:\n  x:\n    type: [\"null\"]\n"

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// WriteTree writes each slash separated relative path in files under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
}

// NewSchemaTree lays out a schemas/original tree under a fresh temporary
// root with pool.yaml, pool/dataset.yaml and empty.yaml. It returns the root
// and the original and clean directories.
func NewSchemaTree(t *testing.T) (root, orig, clean string) {
	t.Helper()
	root = t.TempDir()
	orig = filepath.Join(root, "schemas", "original")
	clean = filepath.Join(root, "schemas", "clean")
	WriteTree(t, orig, map[string]string{
		"pool.yaml":         PoolCreateSchema,
		"pool/dataset.yaml": DatasetSchema,
		"empty.yaml":        EmptyObjectSchema,
	})
	return root, orig, clean
}

// DecodeYAML decodes YAML (or JSON) into generic values for comparisons that
// ignore formatting.
func DecodeYAML(t *testing.T, data []byte) any {
	t.Helper()
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		t.Fatalf("Failed to decode YAML: %v\n%s", err, data)
	}
	return v
}

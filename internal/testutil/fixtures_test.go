package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaTree(t *testing.T) {
	root, orig, clean := NewSchemaTree(t)
	assert.Equal(t, filepath.Join(root, "schemas", "original"), orig)
	assert.Equal(t, filepath.Join(root, "schemas", "clean"), clean)
	assert.FileExists(t, filepath.Join(orig, "pool.yaml"))
	assert.FileExists(t, filepath.Join(orig, "pool", "dataset.yaml"))
	assert.FileExists(t, filepath.Join(orig, "empty.yaml"))
	assert.NoDirExists(t, clean)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.yaml")
	WriteFile(t, path, "type: string\n")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "type: string\n", string(data))
}

func TestDecodeYAML(t *testing.T) {
	assert.Equal(t,
		DecodeYAML(t, []byte(`{"type": "object", "properties": {"name": {"type": "string", "nullable": true}, "topology": {"type": "array", "items": {"type": "string"}}}}`)),
		DecodeYAML(t, []byte(PoolCreateCleaned)),
		"JSON and flow YAML decode to the same value")
}

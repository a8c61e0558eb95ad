package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "pool.yaml")

	written, err := WriteIfChanged(path, []byte("type: string\n"))
	require.NoError(t, err)
	assert.True(t, written)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, ReadableByAll, info.Mode().Perm())

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	written, err = WriteIfChanged(path, []byte("type: string\n"))
	require.NoError(t, err)
	assert.False(t, written, "identical content is not rewritten")
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old))

	written, err = WriteIfChanged(path, []byte("type: integer\n"))
	require.NoError(t, err)
	assert.True(t, written)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "type: integer\n", string(data))
}

func TestWriteIfChanged_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, ReadableByAll))

	_, err := WriteIfChanged(filepath.Join(blocker, "pool.yaml"), []byte("x"))
	assert.Error(t, err)
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: string\n"), ReadableByAll))

	removed, err := RemoveIfExists(path)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, path)

	removed, err = RemoveIfExists(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveIfExists_NonEmptyDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), SharedDir))

	_, err := RemoveIfExists(dir)
	assert.Error(t, err)
}

package mcpserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammmze/truenas-openapi/internal/config"
	"github.com/ammmze/truenas-openapi/internal/testutil"
)

func TestHandleNormalizeTree(t *testing.T) {
	withConfig(t, func(*config.Config) {})
	_, orig, clean := testutil.NewSchemaTree(t)

	result, output, err := handleNormalizeTree(context.Background(), nil, normalizeTreeInput{
		OriginalDir: orig,
		CleanedDir:  clean,
		Jobs:        2,
	})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 3, output.FileCount)
	assert.Equal(t, 3, output.Returned)
	assert.Equal(t, 2, output.Written)
	assert.Zero(t, output.Failed)
	assert.Equal(t, 5, output.TotalChanges)

	require.Len(t, output.Files, 3)
	assert.Equal(t, treeFile{Path: "empty.yaml", ChangeCount: 1, Absent: true}, output.Files[0])
	assert.Equal(t, treeFile{Path: "pool.yaml", ChangeCount: 3, Written: true}, output.Files[1])
	assert.Equal(t, "pool/dataset.yaml", output.Files[2].Path)
	assert.FileExists(t, filepath.Join(clean, "pool", "dataset.yaml"))
}

func TestHandleNormalizeTree_RemovesStaleOutput(t *testing.T) {
	withConfig(t, func(*config.Config) {})
	_, orig, clean := testutil.NewSchemaTree(t)
	stale := filepath.Join(clean, "empty.yaml")
	testutil.WriteFile(t, stale, "type: object\n")

	result, output, err := handleNormalizeTree(context.Background(), nil, normalizeTreeInput{
		OriginalDir: orig,
		CleanedDir:  clean,
	})
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, treeFile{Path: "empty.yaml", ChangeCount: 1, Absent: true, Removed: true}, output.Files[0])
	assert.NoFileExists(t, stale)
}

func TestHandleNormalizeTree_ConfiguredDirs(t *testing.T) {
	root, _, clean := testutil.NewSchemaTree(t)
	withConfig(t, func(c *config.Config) { c.Root = root })

	result, output, err := handleNormalizeTree(context.Background(), nil, normalizeTreeInput{})
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Equal(t, 3, output.FileCount)
	assert.FileExists(t, filepath.Join(clean, "pool.yaml"))
}

func TestHandleNormalizeTree_Ignore(t *testing.T) {
	withConfig(t, func(*config.Config) {})
	_, orig, clean := testutil.NewSchemaTree(t)

	_, output, err := handleNormalizeTree(context.Background(), nil, normalizeTreeInput{
		OriginalDir: orig,
		CleanedDir:  clean,
		Ignore:      []string{"pool/"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, output.FileCount)
	assert.NoFileExists(t, filepath.Join(clean, "pool", "dataset.yaml"))
}

func TestHandleNormalizeTree_Pagination(t *testing.T) {
	withConfig(t, func(*config.Config) {})
	_, orig, clean := testutil.NewSchemaTree(t)

	_, output, err := handleNormalizeTree(context.Background(), nil, normalizeTreeInput{
		OriginalDir: orig,
		CleanedDir:  clean,
		Offset:      2,
		Limit:       5,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, output.FileCount)
	require.Len(t, output.Files, 1)
	assert.Equal(t, "pool/dataset.yaml", output.Files[0].Path)
}

func TestHandleNormalizeTree_Errors(t *testing.T) {
	withConfig(t, func(*config.Config) {})
	_, orig, clean := testutil.NewSchemaTree(t)
	testutil.WriteFile(t, filepath.Join(orig, "broken.yaml"), testutil.InvalidTypeListSchema)

	t.Run("stop on first error", func(t *testing.T) {
		result, _, err := handleNormalizeTree(context.Background(), nil, normalizeTreeInput{
			OriginalDir: orig,
			CleanedDir:  clean,
			Jobs:        1,
		})
		require.NoError(t, err)
		text := errorText(t, result)
		assert.Contains(t, text, "broken.yaml")
		assert.NotContains(t, text, orig, "absolute paths are sanitized")
	})

	t.Run("continue on error", func(t *testing.T) {
		result, output, err := handleNormalizeTree(context.Background(), nil, normalizeTreeInput{
			OriginalDir:     orig,
			CleanedDir:      clean,
			ContinueOnError: true,
		})
		require.NoError(t, err)
		require.Nil(t, result)
		assert.Equal(t, 1, output.Failed)
		assert.Equal(t, "broken.yaml", output.Files[0].Path)
		assert.Contains(t, output.Files[0].Error, "invalid type list")
	})

	t.Run("absent error policy", func(t *testing.T) {
		result, _, err := handleNormalizeTree(context.Background(), nil, normalizeTreeInput{
			OriginalDir: orig,
			CleanedDir:  clean,
			Absent:      "bogus",
		})
		require.NoError(t, err)
		assert.Contains(t, errorText(t, result), "expected omit, empty or error")
	})
}

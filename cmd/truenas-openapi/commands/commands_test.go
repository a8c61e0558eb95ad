package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammmze/truenas-openapi/internal/config"
	"github.com/ammmze/truenas-openapi/internal/testutil"
)

const (
	poolSchema  = testutil.PoolCreateSchema
	emptyObject = testutil.EmptyObjectSchema
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the command tree against a project rooted at dir with the
// given configuration file content.
func runCLI(t *testing.T, dir, configContent string, stdin io.Reader, args ...string) cliResult {
	t.Helper()
	for _, key := range config.EnvKeys() {
		t.Setenv(key, "")
	}
	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0o644))

	if stdin == nil {
		stdin = strings.NewReader("")
	}
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), append([]string{"--config", cfgPath, "--color", "off"}, args...), stdin, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func decodeYAML(t *testing.T, data string) any {
	t.Helper()
	return testutil.DecodeYAML(t, []byte(data))
}

func TestClean_Stdout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pool.yaml")
	testutil.WriteFile(t, src, poolSchema)

	res := runCLI(t, dir, "", nil, "clean", src)
	require.Equal(t, 0, res.code, res.stderr)

	assert.Equal(t, decodeYAML(t, testutil.PoolCreateCleaned), decodeYAML(t, res.stdout))
	assert.Contains(t, res.stderr, "3 changes")
	assert.Contains(t, res.stderr, "Split Type Array $.properties.name")
	assert.Contains(t, res.stderr, "Normalize Items $.properties.topology")
}

func TestClean_Stdin(t *testing.T) {
	dir := t.TempDir()
	res := runCLI(t, dir, "", strings.NewReader(`{"type": ["integer", "null"]}`), "clean", "-")
	require.Equal(t, 0, res.code, res.stderr)
	assert.JSONEq(t, `{"type": "integer", "nullable": true}`, res.stdout)
	assert.Contains(t, res.stderr, "<stdin>: 1 change")
}

func TestClean_OutputFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "original", "pool.yaml")
	dst := filepath.Join(dir, "clean", "pool.json")
	testutil.WriteFile(t, src, poolSchema)

	res := runCLI(t, dir, "", nil, "clean", src, "-o", dst)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "wrote")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "nullable": true},
			"topology": {"type": "array", "items": {"type": "string"}}
		}
	}`, string(data))
}

func TestClean_Quiet(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pool.yaml")
	testutil.WriteFile(t, src, poolSchema)

	res := runCLI(t, dir, "", nil, "clean", "-q", src)
	require.Equal(t, 0, res.code)
	assert.Empty(t, res.stderr)
	assert.NotEmpty(t, res.stdout)
}

func TestClean_Rules(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pool.yaml")
	testutil.WriteFile(t, src, poolSchema)

	t.Run("flag", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "clean", "--rules", "normalize-items", src)
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "null", "type list is left alone")
		assert.NotContains(t, res.stderr, "Split Type Array")
	})

	t.Run("config file", func(t *testing.T) {
		res := runCLI(t, dir, "[clean]\nrules = [\"normalize-items\"]\n", nil, "clean", src)
		require.Equal(t, 0, res.code, res.stderr)
		assert.NotContains(t, res.stderr, "Split Type Array")
	})

	t.Run("flag wins over config", func(t *testing.T) {
		res := runCLI(t, dir, "[clean]\nrules = [\"normalize-items\"]\n", nil, "clean", "--rules", "split-type-array", src)
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stderr, "Split Type Array")
		assert.NotContains(t, res.stderr, "Normalize Items")
	})

	t.Run("unknown rule", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "clean", "--rules", "bogus", src)
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "bogus")
	})
}

func TestClean_Absent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "empty.yaml")
	testutil.WriteFile(t, src, emptyObject)

	t.Run("omit", func(t *testing.T) {
		dst := filepath.Join(dir, "out", "empty.yaml")
		res := runCLI(t, dir, "", nil, "clean", src, "-o", dst)
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stderr, "normalized to nothing")
		assert.NoFileExists(t, dst)
	})

	t.Run("error", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "clean", "--absent", "error", src)
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "absent document")
	})

	t.Run("bad policy", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "clean", "--absent", "drop", src)
		assert.Equal(t, 1, res.code)
	})
}

func TestClean_Errors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pool.yaml")
	testutil.WriteFile(t, src, poolSchema)
	broken := filepath.Join(dir, "broken.yaml")
	testutil.WriteFile(t, broken, "properties:\n  x:\n    type: [\"null\"]\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing file", args: []string{"clean", filepath.Join(dir, "missing.yaml")}, wantErr: "Error:"},
		{name: "overwrite input", args: []string{"clean", src, "-o", src}, wantErr: "would overwrite input file"},
		{name: "invalid type list", args: []string{"clean", broken}, wantErr: "$.properties.x"},
		{name: "no argument", args: []string{"clean"}, wantErr: "accepts 1 arg"},
		{name: "bad format", args: []string{"clean", "--format", "xml", src}, wantErr: "expected yaml or json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, dir, "", nil, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tt.wantErr)
		})
	}
}

func TestCleanAll_ConfiguredDirs(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "schemas", "original")
	testutil.WriteFile(t, filepath.Join(orig, "pool.yaml"), poolSchema)
	testutil.WriteFile(t, filepath.Join(orig, "pool", "dataset.yaml"), "type: [object, \"null\"]\nproperties: {name: {type: string}}\n")
	testutil.WriteFile(t, filepath.Join(orig, "empty.yaml"), emptyObject)

	res := runCLI(t, dir, "", nil, "clean-all")
	require.Equal(t, 0, res.code, res.stderr)

	clean := filepath.Join(dir, "schemas", "clean")
	assert.FileExists(t, filepath.Join(clean, "pool.yaml"))
	assert.FileExists(t, filepath.Join(clean, "pool", "dataset.yaml"))
	assert.NoFileExists(t, filepath.Join(clean, "empty.yaml"))
	assert.Contains(t, res.stderr, "✓ pool.yaml (3 changes)")
	assert.Contains(t, res.stderr, "empty.yaml: normalized to nothing")
	assert.Contains(t, res.stderr, "3 documents cleaned into")
}

func TestCleanAll_RemovesStaleOutput(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "schemas", "original")
	stale := filepath.Join(dir, "schemas", "clean", "empty.yaml")
	testutil.WriteFile(t, filepath.Join(orig, "empty.yaml"), emptyObject)
	testutil.WriteFile(t, stale, "type: object\n")

	res := runCLI(t, dir, "", nil, "clean-all")
	require.Equal(t, 0, res.code, res.stderr)
	assert.NoFileExists(t, stale)
	assert.Contains(t, res.stderr, "empty.yaml: normalized to nothing, removed stale output")
}

func TestCleanAll_ExplicitDirsAndIgnore(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "in")
	clean := filepath.Join(dir, "out")
	testutil.WriteFile(t, filepath.Join(orig, "pool.yaml"), poolSchema)
	testutil.WriteFile(t, filepath.Join(orig, "drafts", "wip.yaml"), poolSchema)

	res := runCLI(t, dir, "", nil, "clean-all", orig, clean, "--ignore", "drafts/", "--jobs", "2", "-q")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stderr)
	assert.FileExists(t, filepath.Join(clean, "pool.yaml"))
	assert.NoDirExists(t, filepath.Join(clean, "drafts"))
}

func TestCleanAll_Errors(t *testing.T) {
	dir := t.TempDir()
	orig := filepath.Join(dir, "in")
	clean := filepath.Join(dir, "out")
	testutil.WriteFile(t, filepath.Join(orig, "a.yaml"), "properties:\n  x:\n    type: [\"null\"]\n")
	testutil.WriteFile(t, filepath.Join(orig, "b.yaml"), poolSchema)

	t.Run("continue on error still fails", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "clean-all", orig, clean, "--continue-on-error")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "✗ a.yaml")
		assert.Contains(t, res.stderr, "1 document failed to clean")
		assert.FileExists(t, filepath.Join(clean, "b.yaml"))
	})

	t.Run("stop on first error", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "clean-all", orig, clean, "--jobs", "1")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "a.yaml")
	})

	t.Run("missing source", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "clean-all", filepath.Join(dir, "nope"), clean)
		assert.Equal(t, 1, res.code)
	})
}

func TestVersion(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, dir, "", nil, "version")
	require.Equal(t, 0, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "truenas-openapi "), res.stdout)

	res = runCLI(t, dir, "", nil, "--verbose", "version")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "Go Version:")
}

func TestRoot_InvalidSettings(t *testing.T) {
	dir := t.TempDir()

	t.Run("color", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "--color", "sometimes", "version")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "invalid color mode")
	})

	t.Run("config", func(t *testing.T) {
		res := runCLI(t, dir, "[clean]\nabsent = \"maybe\"\n", nil, "version")
		assert.Equal(t, 1, res.code)
		assert.Contains(t, res.stderr, "expected omit, empty or error")
	})

	t.Run("unknown command", func(t *testing.T) {
		res := runCLI(t, dir, "", nil, "frobnicate")
		assert.Equal(t, 1, res.code)
	})
}

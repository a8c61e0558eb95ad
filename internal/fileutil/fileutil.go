// Package fileutil holds file permission modes and write helpers shared by
// the cleaner and the CLI.
package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ReadableByAll is the file permission mode for cleaned schema documents,
// which are meant to be read by code generators and other users.
const ReadableByAll os.FileMode = 0o644

// SharedDir is the permission mode for directories created in output trees.
const SharedDir os.FileMode = 0o755

// WriteIfChanged writes data to path, creating parent directories as needed.
// An existing file with identical content is left untouched. It reports
// whether the file was written.
func WriteIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) { //nolint:gosec // G304 - callers sanitize path
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), SharedDir); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, ReadableByAll); err != nil {
		return false, fmt.Errorf("failed to write output: %w", err)
	}
	return true, nil
}

// RemoveIfExists deletes the file at path and reports whether it existed.
// A missing file is not an error.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to remove stale output: %w", err)
	}
}

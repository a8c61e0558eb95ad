// Package options validates input source selection for the cleaner and the
// MCP tools.
package options

import "errors"

// CountSet returns how many of the given flags are true.
func CountSet(sources ...bool) int {
	n := 0
	for _, set := range sources {
		if set {
			n++
		}
	}
	return n
}

// ValidateSingleInputSource ensures exactly one input source is set.
// noSourceMsg and multiSourceMsg become the error text for zero and several
// sources respectively.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	switch CountSet(sources...) {
	case 1:
		return nil
	case 0:
		return errors.New(noSourceMsg)
	default:
		return errors.New(multiSourceMsg)
	}
}

package schemaerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrInvalidTypeList indicates a type list reduced to no concrete types.
	ErrInvalidTypeList = errors.New("invalid type list")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrAbsentDocument indicates a document normalized to nothing.
	ErrAbsentDocument = errors.New("absent document")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// InvalidTypeListError is returned when a schema's `type` list contains no
// types once "null" has been removed, e.g. `type: ["null"]` or `type: []`.
// It aborts normalization of the enclosing document.
type InvalidTypeListError struct {
	// Path is the JSON path of the offending schema (e.g., "$.properties.name")
	Path string
	// Types is the original type list as written in the source
	Types []string
	// Line is the source line of the schema (0 if unknown)
	Line int
	// Column is the source column of the schema (0 if unknown)
	Column int
}

// Error returns a human-readable error message.
func (e *InvalidTypeListError) Error() string {
	msg := "invalid type list"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
		msg += ")"
	}
	msg += ": no types left after removing null"
	if len(e.Types) > 0 {
		msg += " from [" + strings.Join(e.Types, ", ") + "]"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *InvalidTypeListError) Is(target error) bool {
	return target == ErrInvalidTypeList
}

// ParseError represents a failure to parse a schema document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// AbsentDocumentError reports that an entire document normalized to nothing,
// for example a root schema that is an object with no properties and
// additionalProperties set to false.
type AbsentDocumentError struct {
	// Path is the file path or source identifier
	Path string
}

// Error returns a human-readable error message.
func (e *AbsentDocumentError) Error() string {
	if e.Path == "" {
		return "absent document: normalized to nothing"
	}
	return "absent document: " + e.Path + " normalized to nothing"
}

// Is reports whether target matches this error type.
func (e *AbsentDocumentError) Is(target error) bool {
	return target == ErrAbsentDocument
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

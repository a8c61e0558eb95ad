package cleaner

import (
	"fmt"
	"io"
	"strings"

	"github.com/ammmze/truenas-openapi/document"
	"github.com/ammmze/truenas-openapi/internal/fileutil"
	"github.com/ammmze/truenas-openapi/internal/options"
	"github.com/ammmze/truenas-openapi/internal/pathutil"
	"github.com/ammmze/truenas-openapi/normalizer"
	"github.com/ammmze/truenas-openapi/schemaerrors"
)

// AbsentPolicy decides what happens to a document that normalizes to nothing.
type AbsentPolicy string

const (
	// AbsentOmit skips the document: nothing is written
	AbsentOmit AbsentPolicy = "omit"
	// AbsentEmpty writes an empty document
	AbsentEmpty AbsentPolicy = "empty"
	// AbsentError fails with a *schemaerrors.AbsentDocumentError
	AbsentError AbsentPolicy = "error"
)

// ParseAbsentPolicy converts a policy name into an AbsentPolicy.
// An empty name selects AbsentOmit.
func ParseAbsentPolicy(name string) (AbsentPolicy, error) {
	switch p := AbsentPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return AbsentOmit, nil
	case AbsentOmit, AbsentEmpty, AbsentError:
		return p, nil
	default:
		return "", &schemaerrors.ConfigError{
			Option:  "absent",
			Value:   name,
			Message: "expected omit, empty or error",
		}
	}
}

// CleanResult contains the outcome of cleaning one document.
type CleanResult struct {
	// Document is the serialized output. It is nil when the document was
	// absent and omitted.
	Document []byte
	// Format is the format Document is written in
	Format document.SourceFormat
	// SourceFormat is the format of the input
	SourceFormat document.SourceFormat
	// SourcePath is the input file ("" for in-memory input)
	SourcePath string
	// OutputPath is the file Document was written to ("" if not written)
	OutputPath string
	// Changes lists every rule firing
	Changes []normalizer.Change
	// ChangeCount is len(Changes)
	ChangeCount int
	// Absent is true when the whole document normalized to nothing
	Absent bool
}

// HasChanges returns true if any rule fired.
func (r *CleanResult) HasChanges() bool {
	return r.ChangeCount > 0
}

// Written reports whether the result was written to a file.
func (r *CleanResult) Written() bool {
	return r.OutputPath != ""
}

// Cleaner parses, normalizes and writes schema documents.
type Cleaner struct {
	// EnabledRules restricts the normalizer rules. Empty enables all.
	EnabledRules []normalizer.Rule
	// AbsentPolicy decides what to do with absent documents. Defaults to AbsentOmit.
	AbsentPolicy AbsentPolicy
	// Format forces the output format. SourceFormatUnknown derives it from
	// the output path extension, then from the source.
	Format document.SourceFormat
	// Logger receives progress and rule-level debug output. Defaults to NopLogger.
	Logger normalizer.Logger
}

// New creates a new Cleaner with default settings.
func New() *Cleaner {
	return &Cleaner{AbsentPolicy: AbsentOmit}
}

// Option is a function that configures a clean operation
type Option func(*cleanConfig) error

type cleanConfig struct {
	// Input source (exactly one)
	filePath *string
	data     []byte
	reader   io.Reader

	outputPath   string
	logger       normalizer.Logger
	enabledRules []normalizer.Rule
	absent       AbsentPolicy
	format       document.SourceFormat
}

// CleanWithOptions cleans a single document using functional options.
//
// Example:
//
//	result, err := cleaner.CleanWithOptions(
//		cleaner.WithFilePath("schemas/original/pool.yaml"),
//		cleaner.WithOutputPath("schemas/clean/pool.yaml"),
//	)
func CleanWithOptions(opts ...Option) (*CleanResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	c := &Cleaner{
		EnabledRules: cfg.enabledRules,
		AbsentPolicy: cfg.absent,
		Format:       cfg.format,
		Logger:       cfg.logger,
	}

	var doc *document.Document
	switch {
	case cfg.filePath != nil:
		doc, err = document.ParseFile(*cfg.filePath)
	case cfg.reader != nil:
		doc, err = document.ParseReader(cfg.reader)
	default:
		doc, err = document.Parse(cfg.data)
	}
	if err != nil {
		return nil, fmt.Errorf("cleaner: %w", err)
	}
	return c.CleanDocument(doc, cfg.outputPath)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*cleanConfig, error) {
	cfg := &cleanConfig{
		absent: AbsentOmit,
		format: document.SourceFormatUnknown,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"no input source specified: use WithFilePath, WithBytes or WithReader",
		"multiple input sources specified: use only one of WithFilePath, WithBytes or WithReader",
		cfg.filePath != nil, cfg.data != nil, cfg.reader != nil,
	); err != nil {
		return nil, &schemaerrors.ConfigError{Message: err.Error()}
	}

	return cfg, nil
}

// WithFilePath specifies the document file to clean
func WithFilePath(path string) Option {
	return func(cfg *cleanConfig) error {
		if path == "" {
			return &schemaerrors.ConfigError{Option: "file path", Message: "cannot be empty"}
		}
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies in-memory document content to clean
func WithBytes(data []byte) Option {
	return func(cfg *cleanConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.data = data
		return nil
	}
}

// WithReader specifies a reader to read the document from
func WithReader(r io.Reader) Option {
	return func(cfg *cleanConfig) error {
		if r == nil {
			return &schemaerrors.ConfigError{Option: "reader", Message: "cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithOutputPath writes the cleaned document to path, creating parent
// directories as needed
func WithOutputPath(path string) Option {
	return func(cfg *cleanConfig) error {
		cfg.outputPath = path
		return nil
	}
}

// WithLogger sets the logger for progress and rule-level output
func WithLogger(l normalizer.Logger) Option {
	return func(cfg *cleanConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithEnabledRules restricts which normalizer rules run
func WithEnabledRules(rules ...normalizer.Rule) Option {
	return func(cfg *cleanConfig) error {
		cfg.enabledRules = rules
		return nil
	}
}

// WithAbsentPolicy sets what happens to a document that normalizes to nothing
func WithAbsentPolicy(p AbsentPolicy) Option {
	return func(cfg *cleanConfig) error {
		policy, err := ParseAbsentPolicy(string(p))
		if err != nil {
			return err
		}
		cfg.absent = policy
		return nil
	}
}

// WithFormat forces the output format
func WithFormat(f document.SourceFormat) Option {
	return func(cfg *cleanConfig) error {
		switch f {
		case document.SourceFormatYAML, document.SourceFormatJSON, document.SourceFormatUnknown, "":
			cfg.format = f
			return nil
		default:
			return &schemaerrors.ConfigError{Option: "format", Value: string(f), Message: "expected yaml or json"}
		}
	}
}

// CleanFile cleans the document at src. When dst is not empty the result is
// written there.
func (c *Cleaner) CleanFile(src, dst string) (*CleanResult, error) {
	doc, err := document.ParseFile(src)
	if err != nil {
		return nil, fmt.Errorf("cleaner: %w", err)
	}
	return c.CleanDocument(doc, dst)
}

// CleanDocument normalizes a parsed document, applies the absent policy,
// serializes the result and writes it to dst when dst is not empty.
func (c *Cleaner) CleanDocument(doc *document.Document, dst string) (*CleanResult, error) {
	log := c.log()
	if doc.SourcePath != "" {
		log = log.With("file", doc.SourcePath)
	}

	n := &normalizer.Normalizer{EnabledRules: c.EnabledRules, Logger: log}
	res, err := n.Normalize(doc.Node)
	if err != nil {
		return nil, fmt.Errorf("cleaner: %w", err)
	}

	result := &CleanResult{
		Format:       c.outputFormat(doc, dst),
		SourceFormat: doc.Format,
		SourcePath:   doc.SourcePath,
		Changes:      res.Changes,
		ChangeCount:  res.ChangeCount,
		Absent:       res.Absent,
	}

	if res.Absent {
		switch c.policy() {
		case AbsentError:
			return nil, &schemaerrors.AbsentDocumentError{Path: doc.SourcePath}
		case AbsentOmit:
			log.Info("document normalized to nothing, skipping")
			return result, nil
		}
	}

	data, err := document.Marshal(res.Node, result.Format)
	if err != nil {
		return nil, fmt.Errorf("cleaner: %w", err)
	}
	result.Document = data

	if dst != "" {
		written, err := writeOutput(dst, data)
		if err != nil {
			return nil, fmt.Errorf("cleaner: %w", err)
		}
		result.OutputPath = written
		log.Info("wrote cleaned document", "output", written, "changes", res.ChangeCount)
	}
	return result, nil
}

func (c *Cleaner) log() normalizer.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return normalizer.NopLogger{}
}

func (c *Cleaner) policy() AbsentPolicy {
	if c.AbsentPolicy == "" {
		return AbsentOmit
	}
	return c.AbsentPolicy
}

// outputFormat picks the forced format, then the output extension, then the
// source format, then YAML.
func (c *Cleaner) outputFormat(doc *document.Document, dst string) document.SourceFormat {
	if c.Format != "" && c.Format != document.SourceFormatUnknown {
		return c.Format
	}
	if dst != "" {
		if f := document.FormatFromPath(dst); f != document.SourceFormatUnknown {
			return f
		}
	}
	if doc.Format != document.SourceFormatUnknown && doc.Format != "" {
		return doc.Format
	}
	return document.SourceFormatYAML
}

// writeOutput writes data to dst and returns the cleaned absolute path.
// An identical existing file is left untouched.
func writeOutput(dst string, data []byte) (string, error) {
	path, err := pathutil.SanitizeOutputPath(dst)
	if err != nil {
		return "", err
	}
	if _, err := fileutil.WriteIfChanged(path, data); err != nil {
		return "", err
	}
	return path, nil
}

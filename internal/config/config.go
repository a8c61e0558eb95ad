// Package config loads project settings for the CLI and MCP server.
//
// Settings come from three layers, later layers winning: a
// truenas-openapi.toml file found by walking up from the working directory,
// TRUENAS_OPENAPI_* environment variables, and command-line flags (applied
// by the caller).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ammmze/truenas-openapi/cleaner"
	"github.com/ammmze/truenas-openapi/document"
	"github.com/ammmze/truenas-openapi/normalizer"
	"github.com/ammmze/truenas-openapi/schemaerrors"
)

// FileName is the project configuration file looked up by Find.
const FileName = "truenas-openapi.toml"

// Config is the merged project configuration.
//
// Example truenas-openapi.toml:
//
//	[clean]
//	absent = "omit"
//	rules = ["split-type-array", "normalize-items"]
//
//	[tree]
//	original_dir = "schemas/original"
//	cleaned_dir = "schemas/clean"
//	jobs = 4
//	ignore = ["drafts/"]
type Config struct {
	// Path is the file the configuration was read from ("" for defaults only)
	Path string `toml:"-"`
	// Root is the directory relative tree paths are resolved against
	Root string `toml:"-"`

	Clean CleanConfig `toml:"clean"`
	Tree  TreeConfig  `toml:"tree"`
	MCP   MCPConfig   `toml:"mcp"`
}

// CleanConfig holds single-document settings.
type CleanConfig struct {
	Rules  []string `toml:"rules"`
	Absent string   `toml:"absent"`
	Format string   `toml:"format"`
}

// TreeConfig holds clean-all settings.
type TreeConfig struct {
	OriginalDir     string   `toml:"original_dir"`
	CleanedDir      string   `toml:"cleaned_dir"`
	Jobs            int      `toml:"jobs"`
	Include         []string `toml:"include"`
	Ignore          []string `toml:"ignore"`
	ContinueOnError bool     `toml:"continue_on_error"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	// ChangeLimit is the default page size for change lists
	ChangeLimit int `toml:"change_limit"`
	// MaxChangeLimit caps the page size a client may request
	MaxChangeLimit int `toml:"max_change_limit"`
	// MaxInlineSize caps inline document content in bytes
	MaxInlineSize int `toml:"max_inline_size"`

	// CacheEnabled keeps parsed documents between tool calls
	CacheEnabled bool `toml:"cache_enabled"`
	// CacheMaxSize bounds the number of cached documents
	CacheMaxSize int `toml:"cache_max_size"`
	// CacheTTL expires cached documents (e.g. "15m")
	CacheTTL time.Duration `toml:"cache_ttl"`
	// CacheSweepInterval is how often expired entries are removed
	CacheSweepInterval time.Duration `toml:"cache_sweep_interval"`
}

// Default returns the built-in configuration rooted at the working directory.
func Default() *Config {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return &Config{
		Root: root,
		Clean: CleanConfig{
			Absent: string(cleaner.AbsentOmit),
		},
		Tree: TreeConfig{
			OriginalDir: cleaner.DefaultOriginalDir,
			CleanedDir:  cleaner.DefaultCleanedDir,
		},
		MCP: MCPConfig{
			ChangeLimit:    100,
			MaxChangeLimit: 1000,
			MaxInlineSize:  10 * 1024 * 1024,

			CacheEnabled:       true,
			CacheMaxSize:       10,
			CacheTTL:           15 * time.Minute,
			CacheSweepInterval: 60 * time.Second,
		},
	}
}

// Find walks up from startDir looking for FileName. It reports false when no
// file exists up to the filesystem root.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("config: failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("config: failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadFile reads a configuration file on top of the defaults. Relative tree
// directories are resolved against the file's directory.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, &schemaerrors.ConfigError{Option: "config file", Value: path, Message: "failed to parse TOML", Cause: err}
	}
	for _, key := range meta.Undecoded() {
		slog.Warn("unknown config key, ignoring", "file", path, "key", key.String()) //nolint:gosec // G706: values are structured log fields, not format strings
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	return cfg, nil
}

// Load builds the configuration. An explicit path must exist; otherwise the
// file is discovered from startDir, and defaults apply when none is found.
// Environment overrides are applied last and the result is validated.
func Load(startDir, explicit string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case explicit != "":
		cfg, err = LoadFile(explicit)
	default:
		path, ok, findErr := Find(startDir)
		switch {
		case findErr != nil:
			err = findErr
		case ok:
			cfg, err = LoadFile(path)
		default:
			cfg = Default()
		}
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := c.Rules(); err != nil {
		return err
	}
	if _, err := c.AbsentPolicy(); err != nil {
		return err
	}
	if _, err := document.ParseFormat(c.Clean.Format); err != nil {
		return &schemaerrors.ConfigError{Option: "clean.format", Value: c.Clean.Format, Cause: err}
	}
	if c.Tree.Jobs < 0 {
		return &schemaerrors.ConfigError{Option: "tree.jobs", Value: c.Tree.Jobs, Message: "must not be negative"}
	}
	return nil
}

// Rules returns the configured rules, or nil when all rules are enabled.
func (c *Config) Rules() ([]normalizer.Rule, error) {
	return ParseRules(c.Clean.Rules)
}

// AbsentPolicy returns the configured absent policy.
func (c *Config) AbsentPolicy() (cleaner.AbsentPolicy, error) {
	return cleaner.ParseAbsentPolicy(c.Clean.Absent)
}

// OriginalDir returns the source tree resolved against Root.
func (c *Config) OriginalDir() string {
	return c.resolve(c.Tree.OriginalDir)
}

// CleanedDir returns the destination tree resolved against Root.
func (c *Config) CleanedDir() string {
	return c.resolve(c.Tree.CleanedDir)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// TreeConfig converts the tree settings into a cleaner.TreeConfig.
func (c *Config) TreeConfig(logger normalizer.Logger) (cleaner.TreeConfig, error) {
	rules, err := c.Rules()
	if err != nil {
		return cleaner.TreeConfig{}, err
	}
	absent, err := c.AbsentPolicy()
	if err != nil {
		return cleaner.TreeConfig{}, err
	}
	return cleaner.TreeConfig{
		Jobs:            c.Tree.Jobs,
		Include:         c.Tree.Include,
		Ignore:          c.Tree.Ignore,
		ContinueOnError: c.Tree.ContinueOnError,
		EnabledRules:    rules,
		AbsentPolicy:    absent,
		Logger:          logger,
	}, nil
}

// ParseRules converts rule names into rules. Names may be comma separated.
// An empty list means all rules.
func ParseRules(names []string) ([]normalizer.Rule, error) {
	var rules []normalizer.Rule
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			r, err := normalizer.ParseRule(part)
			if err != nil {
				return nil, &schemaerrors.ConfigError{Option: "rules", Value: part, Cause: err}
			}
			rules = append(rules, r)
		}
	}
	return rules, nil
}

package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ammmze/truenas-openapi/cleaner"
	"github.com/ammmze/truenas-openapi/document"
	"github.com/ammmze/truenas-openapi/normalizer"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRUENAS_OPENAPI_"

// EnvKeys lists the recognised environment variables.
func EnvKeys() []string {
	return []string{
		EnvPrefix + "RULES",
		EnvPrefix + "ABSENT",
		EnvPrefix + "FORMAT",
		EnvPrefix + "ORIGINAL_DIR",
		EnvPrefix + "CLEANED_DIR",
		EnvPrefix + "JOBS",
		EnvPrefix + "INCLUDE",
		EnvPrefix + "IGNORE",
		EnvPrefix + "CONTINUE_ON_ERROR",
		EnvPrefix + "MCP_CHANGE_LIMIT",
		EnvPrefix + "MCP_MAX_CHANGE_LIMIT",
		EnvPrefix + "MCP_MAX_INLINE_SIZE",
		EnvPrefix + "MCP_CACHE_ENABLED",
		EnvPrefix + "MCP_CACHE_MAX_SIZE",
		EnvPrefix + "MCP_CACHE_TTL",
		EnvPrefix + "MCP_CACHE_SWEEP_INTERVAL",
	}
}

// ApplyEnv overrides settings from TRUENAS_OPENAPI_* environment variables.
// Invalid values log a warning and leave the current value in place.
func (c *Config) ApplyEnv() {
	c.Clean.Rules = envRules(EnvPrefix+"RULES", c.Clean.Rules)
	c.Clean.Absent = envAbsent(EnvPrefix+"ABSENT", c.Clean.Absent)
	c.Clean.Format = envFormat(EnvPrefix+"FORMAT", c.Clean.Format)

	c.Tree.OriginalDir = envString(EnvPrefix+"ORIGINAL_DIR", c.Tree.OriginalDir)
	c.Tree.CleanedDir = envString(EnvPrefix+"CLEANED_DIR", c.Tree.CleanedDir)
	c.Tree.Jobs = envInt(EnvPrefix+"JOBS", c.Tree.Jobs)
	c.Tree.Include = envList(EnvPrefix+"INCLUDE", c.Tree.Include)
	c.Tree.Ignore = envList(EnvPrefix+"IGNORE", c.Tree.Ignore)
	c.Tree.ContinueOnError = envBool(EnvPrefix+"CONTINUE_ON_ERROR", c.Tree.ContinueOnError)

	c.MCP.ChangeLimit = envInt(EnvPrefix+"MCP_CHANGE_LIMIT", c.MCP.ChangeLimit)
	c.MCP.MaxChangeLimit = envInt(EnvPrefix+"MCP_MAX_CHANGE_LIMIT", c.MCP.MaxChangeLimit)
	c.MCP.MaxInlineSize = envInt(EnvPrefix+"MCP_MAX_INLINE_SIZE", c.MCP.MaxInlineSize)
	c.MCP.CacheEnabled = envBool(EnvPrefix+"MCP_CACHE_ENABLED", c.MCP.CacheEnabled)
	c.MCP.CacheMaxSize = envInt(EnvPrefix+"MCP_CACHE_MAX_SIZE", c.MCP.CacheMaxSize)
	c.MCP.CacheTTL = envDuration(EnvPrefix+"MCP_CACHE_TTL", c.MCP.CacheTTL)
	c.MCP.CacheSweepInterval = envDuration(EnvPrefix+"MCP_CACHE_SWEEP_INTERVAL", c.MCP.CacheSweepInterval)
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

func envAbsent(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if _, err := cleaner.ParseAbsentPolicy(v); err != nil {
		slog.Warn("invalid absent policy env var, ignoring", "key", key, "value", v) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return v
}

func envFormat(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if _, err := document.ParseFormat(v); err != nil {
		slog.Warn("invalid format env var, ignoring", "key", key, "value", v) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return v
}

func envRules(key string, fallback []string) []string {
	list := envList(key, nil)
	if list == nil {
		return fallback
	}
	for _, name := range list {
		if _, err := normalizer.ParseRule(name); err != nil {
			slog.Warn("invalid rule in env var, ignoring", "key", key, "value", name) //nolint:gosec // G706: values are structured log fields, not format strings
			return fallback
		}
	}
	return list
}

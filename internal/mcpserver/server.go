// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes schema normalization as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	truenasopenapi "github.com/ammmze/truenas-openapi"
	"github.com/ammmze/truenas-openapi/internal/config"
)

const serverInstructions = `truenas-openapi MCP server: rewrites TrueNAS middleware JSON Schemas into OpenAPI 3.0 compatible schemas.

Tools:
- normalize: clean one schema document given as a file path or inline content
- normalize_tree: clean every document under an original directory into a cleaned directory

Configuration: defaults come from truenas-openapi.toml (found by walking up from the server's working directory) and TRUENAS_OPENAPI_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- TRUENAS_OPENAPI_RULES: comma separated rules to enable (default: all)
- TRUENAS_OPENAPI_ABSENT (default: omit): omit, empty or error for documents that normalize to nothing
- TRUENAS_OPENAPI_ORIGINAL_DIR / TRUENAS_OPENAPI_CLEANED_DIR (default: schemas/original, schemas/clean)
- TRUENAS_OPENAPI_MCP_CHANGE_LIMIT (default: 100): default page size for change lists
- TRUENAS_OPENAPI_MCP_CACHE_ENABLED (default: true): disable document caching entirely

Caching: parsed documents are cached per session. File entries use path+mtime as key (auto-invalidated on change); inline content uses a SHA-256 key. A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled. A nil c keeps the configuration loaded from the
// environment at startup.
func Run(ctx context.Context, c *config.Config) error {
	if c != nil {
		setConfig(c)
	}
	if cfg.MCP.CacheEnabled {
		docCache.startSweeper(ctx, cfg.MCP.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "truenas-openapi", Version: truenasopenapi.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize",
		Description: "Normalize one TrueNAS JSON Schema document into an OpenAPI 3.0 compatible schema. Splits type lists into type + nullable, collapses positional items arrays, merges anyOf lists of single-value enums, prunes empty objects and defaults, and strips internal keys (_name_, _required_, _attrs_order_). Returns the list of changes with JSON paths; use offset/limit to paginate. Set include_document=true to receive the cleaned document inline, or output to write it to a file.",
	}, handleNormalize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize_tree",
		Description: "Normalize every YAML schema under original_dir into the same relative path under cleaned_dir (defaults: schemas/original and schemas/clean relative to the configuration root). Honors .cleanignore files. Returns per-file change counts and totals; use continue_on_error=true to clean the rest of the tree when a document fails.",
	}, handleNormalizeTree)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to the configured change limit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.MCP.ChangeLimit
	}
	if limit > cfg.MCP.MaxChangeLimit {
		limit = cfg.MCP.MaxChangeLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

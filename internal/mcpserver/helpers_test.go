package mcpserver

import (
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/ammmze/truenas-openapi/internal/config"
	"github.com/ammmze/truenas-openapi/internal/testutil"
)

const poolSchema = testutil.PoolCreateSchema

// withConfig installs a copy of the active configuration changed by mutate
// and restores the previous configuration when the test ends.
func withConfig(t *testing.T, mutate func(c *config.Config)) {
	t.Helper()
	prev := cfg
	next := *prev
	mutate(&next)
	setConfig(&next)
	docCache.reset()
	t.Cleanup(func() {
		setConfig(prev)
		docCache.reset()
	})
}

// unmarshalStructured extracts the structured output of a tool call as a map.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	// Prefer structured content if available.
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	// Fall back to parsing text content.
	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}

// errorText returns the text of an error result.
func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.IsError)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

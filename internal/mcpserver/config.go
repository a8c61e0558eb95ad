package mcpserver

import (
	"github.com/ammmze/truenas-openapi/internal/config"
)

// cfg is the active server configuration, initialized at package load time
// from the built-in defaults and TRUENAS_OPENAPI_* environment variables.
var cfg = loadConfig()

func loadConfig() *config.Config {
	c := config.Default()
	c.ApplyEnv()
	return c
}

// setConfig replaces the active configuration and resizes the document cache.
// It must be called before the server starts handling requests.
func setConfig(c *config.Config) {
	cfg = c
	docCache.resize(c.MCP.CacheMaxSize)
}

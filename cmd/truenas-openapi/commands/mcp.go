package commands

import (
	"github.com/spf13/cobra"

	"github.com/ammmze/truenas-openapi/internal/mcpserver"
)

func newMCPCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the normalize
and normalize_tree tools. Configuration comes from truenas-openapi.toml and
TRUENAS_OPENAPI_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context(), root.cfg)
		},
	}
}

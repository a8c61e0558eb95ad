package commands

import (
	"github.com/spf13/cobra"

	truenasopenapi "github.com/ammmze/truenas-openapi"
	"github.com/ammmze/truenas-openapi/internal/cliutil"
)

func newVersionCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if root.verbose {
				cliutil.Writef(out, "truenas-openapi\n%s\n", truenasopenapi.BuildInfo())
				return nil
			}
			cliutil.Writef(out, "truenas-openapi %s\n", truenasopenapi.Version())
			return nil
		},
	}
}

// Package commands provides the cobra command tree for truenas-openapi.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	truenasopenapi "github.com/ammmze/truenas-openapi"
	"github.com/ammmze/truenas-openapi/internal/cliutil"
	"github.com/ammmze/truenas-openapi/internal/config"
	"github.com/ammmze/truenas-openapi/normalizer"
)

// rootOptions holds the persistent flags and the state derived from them
// before a subcommand runs.
type rootOptions struct {
	verbose    bool
	color      string
	configPath string

	cfg    *config.Config
	logger *slog.Logger
}

// normalizerLogger adapts the command logger for the cleaner packages.
func (o *rootOptions) normalizerLogger() normalizer.Logger {
	return normalizer.NewSlogAdapter(o.logger)
}

// NewRootCommand builds the command tree. Streams are taken from the
// command's In/Out/Err so tests can substitute buffers.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "truenas-openapi",
		Short: "Clean TrueNAS JSON Schemas into OpenAPI 3.0 compatible schemas",
		Long: `truenas-openapi rewrites the JSON Schemas published by the TrueNAS middleware
so that OpenAPI 3.0 code generators accept them: type lists become
type + nullable, positional items arrays collapse, anyOf enums merge, and
internal bookkeeping keys are stripped.

Settings are read from truenas-openapi.toml (searched upward from the working
directory) and TRUENAS_OPENAPI_* environment variables; flags win over both.`,
		Version:       truenasopenapi.Version(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&opts.verbose, "verbose", false, "log rule-level debug output to stderr")
	flags.StringVar(&opts.color, "color", cliutil.ColorAuto, "colorize output (auto|on|off)")
	flags.StringVar(&opts.configPath, "config", "", "path to a truenas-openapi.toml file (default: search upward)")

	root.AddCommand(
		newCleanCommand(opts),
		newCleanAllCommand(opts),
		newMCPCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	stderr := cmd.ErrOrStderr()
	if err := cliutil.SetColorMode(o.color, stderr); err != nil {
		return err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := config.Load(cwd, o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	if cfg.Path != "" {
		o.logger.Debug("loaded configuration", "file", cfg.Path)
	}
	return nil
}

// Execute runs the command tree with the given arguments and streams and
// returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		cliutil.Writef(stderr, "%s %v\n", cliutil.Error("Error:"), err)
		return 1
	}
	return 0
}

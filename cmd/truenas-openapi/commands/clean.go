package commands

import (
	"github.com/spf13/cobra"

	"github.com/ammmze/truenas-openapi/cleaner"
	"github.com/ammmze/truenas-openapi/document"
	"github.com/ammmze/truenas-openapi/internal/cliutil"
)

// cleanFlags contains flags for the clean command
type cleanFlags struct {
	output string
	quiet  bool
	absent string
	rules  []string
	format string
}

func newCleanCommand(root *rootOptions) *cobra.Command {
	flags := &cleanFlags{}
	cmd := &cobra.Command{
		Use:   "clean [flags] <file|->",
		Short: "Clean a single schema document",
		Long: `Clean one YAML or JSON schema document. The cleaned document is written to
--output, or to stdout when no output is given. Use - to read from stdin.

A document that normalizes to nothing is handled by --absent: omit writes
nothing, empty writes an empty document, error fails the command.`,
		Example: `  truenas-openapi clean schemas/original/pool.yaml
  truenas-openapi clean schemas/original/pool.yaml -o schemas/clean/pool.yaml
  cat pool.json | truenas-openapi clean --rules split-type-array -
  truenas-openapi clean --format json pool.yaml > pool.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, root, flags, args[0])
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&flags.output, "output", "o", "", "write the cleaned document to this file instead of stdout")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "do not report changes on stderr")
	fs.StringVar(&flags.absent, "absent", "", "absent document policy: omit, empty or error (default from config: omit)")
	fs.StringSliceVar(&flags.rules, "rules", nil, "comma separated rules to enable (default: all)")
	fs.StringVar(&flags.format, "format", "", "output format: yaml or json (default: output extension, then input format)")
	return cmd
}

func runClean(cmd *cobra.Command, root *rootOptions, flags *cleanFlags, input string) error {
	cfg := root.cfg
	rules, err := resolveRules(flags.rules, cmd.Flags().Changed("rules"), cfg)
	if err != nil {
		return err
	}
	absent, err := resolveAbsent(flags.absent, cmd.Flags().Changed("absent"), cfg)
	if err != nil {
		return err
	}
	formatName := cfg.Clean.Format
	if cmd.Flags().Changed("format") {
		formatName = flags.format
	}
	format, err := document.ParseFormat(formatName)
	if err != nil {
		return err
	}

	opts := []cleaner.Option{
		cleaner.WithEnabledRules(rules...),
		cleaner.WithAbsentPolicy(absent),
		cleaner.WithFormat(format),
		cleaner.WithLogger(root.normalizerLogger()),
	}
	if input == cliutil.StdinPath {
		opts = append(opts, cleaner.WithReader(cmd.InOrStdin()))
	} else {
		opts = append(opts, cleaner.WithFilePath(input))
	}
	if flags.output != "" {
		if err := validateOutputPath(flags.output, input); err != nil {
			return err
		}
		opts = append(opts, cleaner.WithOutputPath(flags.output))
	}

	result, err := cleaner.CleanWithOptions(opts...)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if flags.output == "" && len(result.Document) > 0 {
		if _, err := cmd.OutOrStdout().Write(result.Document); err != nil {
			return err
		}
	}

	if flags.quiet {
		return nil
	}
	printChanges(stderr, input, result.Changes)
	switch {
	case result.Absent && !result.Written() && len(result.Document) == 0:
		cliutil.Writef(stderr, "%s document normalized to nothing; no output written\n", cliutil.Warn("warning:"))
	case result.Written():
		cliutil.Writef(stderr, "%s wrote %s\n", cliutil.Success("✓"), cliutil.Path(result.OutputPath))
	}
	return nil
}

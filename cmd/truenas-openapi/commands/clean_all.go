package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ammmze/truenas-openapi/cleaner"
	"github.com/ammmze/truenas-openapi/internal/cliutil"
)

// cleanAllFlags contains flags for the clean-all command
type cleanAllFlags struct {
	jobs            int
	include         []string
	ignore          []string
	continueOnError bool
	absent          string
	rules           []string
	quiet           bool
}

func newCleanAllCommand(root *rootOptions) *cobra.Command {
	flags := &cleanAllFlags{}
	cmd := &cobra.Command{
		Use:   "clean-all [originalDir] [cleanedDir]",
		Short: "Clean every schema under a directory tree",
		Long: `Clean every *.yml and *.yaml document under originalDir into the same
relative path under cleanedDir, creating directories as needed.

The directories default to schemas/original and schemas/clean (relative to the
directory holding truenas-openapi.toml, or the working directory). Paths listed
in originalDir/.cleanignore and --ignore use gitignore syntax and are skipped.`,
		Example: `  truenas-openapi clean-all
  truenas-openapi clean-all api/original api/clean --jobs 8
  truenas-openapi clean-all --ignore 'drafts/' --continue-on-error`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanAll(cmd, root, flags, args)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&flags.jobs, "jobs", "j", 0, "documents cleaned concurrently (default: number of CPUs)")
	fs.StringSliceVar(&flags.include, "include", nil, "gitignore-style patterns selecting documents (default: **/*.yml,**/*.yaml)")
	fs.StringSliceVar(&flags.ignore, "ignore", nil, "additional gitignore-style patterns to skip")
	fs.BoolVar(&flags.continueOnError, "continue-on-error", false, "keep cleaning the remaining documents when one fails")
	fs.StringVar(&flags.absent, "absent", "", "absent document policy: omit, empty or error (default from config: omit)")
	fs.StringSliceVar(&flags.rules, "rules", nil, "comma separated rules to enable (default: all)")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "only report failures")
	return cmd
}

func runCleanAll(cmd *cobra.Command, root *rootOptions, flags *cleanAllFlags, args []string) error {
	cfg := root.cfg
	originalDir, cleanedDir := cfg.OriginalDir(), cfg.CleanedDir()
	if len(args) > 0 {
		originalDir = filepath.Clean(args[0])
	}
	if len(args) > 1 {
		cleanedDir = filepath.Clean(args[1])
	}

	tc, err := cfg.TreeConfig(root.normalizerLogger())
	if err != nil {
		return err
	}
	changed := cmd.Flags().Changed
	if changed("jobs") {
		tc.Jobs = flags.jobs
	}
	if changed("include") {
		tc.Include = flags.include
	}
	if changed("ignore") {
		tc.Ignore = append(append([]string(nil), tc.Ignore...), flags.ignore...)
	}
	if changed("continue-on-error") {
		tc.ContinueOnError = flags.continueOnError
	}
	if tc.AbsentPolicy, err = resolveAbsent(flags.absent, changed("absent"), cfg); err != nil {
		return err
	}
	if tc.EnabledRules, err = resolveRules(flags.rules, changed("rules"), cfg); err != nil {
		return err
	}

	result, err := cleaner.CleanTree(cmd.Context(), originalDir, cleanedDir, tc)
	stderr := cmd.ErrOrStderr()
	if result != nil {
		for _, f := range result.Files {
			switch {
			case f.Err != nil:
				cliutil.Writef(stderr, "%s %s: %v\n", cliutil.Error("✗"), cliutil.Path(f.RelPath), f.Err)
			case flags.quiet:
			case f.Removed:
				cliutil.Writef(stderr, "%s %s: normalized to nothing, removed stale output\n", cliutil.Warn("-"), cliutil.Path(f.RelPath))
			case f.Absent && f.OutputPath == "":
				cliutil.Writef(stderr, "%s %s: normalized to nothing, skipped\n", cliutil.Warn("-"), cliutil.Path(f.RelPath))
			case f.OutputPath != "":
				cliutil.Writef(stderr, "%s %s (%s)\n", cliutil.Success("✓"), cliutil.Path(f.RelPath), cliutil.Plural(f.ChangeCount, "change", "changes"))
			}
		}
		if !flags.quiet {
			cliutil.Writef(stderr, "\n%s cleaned into %s: %d written, %s, %d failed\n",
				cliutil.Plural(len(result.Files), "document", "documents"),
				cliutil.Path(cleanedDir),
				result.Written,
				cliutil.Plural(result.TotalChanges, "change", "changes"),
				result.Failed)
		}
	}
	if err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("%s failed to clean", cliutil.Plural(result.Failed, "document", "documents"))
	}
	return nil
}

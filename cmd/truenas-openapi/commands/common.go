package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/ammmze/truenas-openapi/cleaner"
	"github.com/ammmze/truenas-openapi/internal/cliutil"
	"github.com/ammmze/truenas-openapi/internal/config"
	"github.com/ammmze/truenas-openapi/normalizer"
)

// resolveRules returns the rules from the flag when it was given, otherwise
// from the configuration.
func resolveRules(flagRules []string, changed bool, cfg *config.Config) ([]normalizer.Rule, error) {
	if changed {
		return config.ParseRules(flagRules)
	}
	return cfg.Rules()
}

// resolveAbsent returns the absent policy from the flag when it was given,
// otherwise from the configuration.
func resolveAbsent(flagValue string, changed bool, cfg *config.Config) (cleaner.AbsentPolicy, error) {
	if changed {
		return cleaner.ParseAbsentPolicy(flagValue)
	}
	return cfg.AbsentPolicy()
}

// validateOutputPath refuses to overwrite the input document.
func validateOutputPath(outputPath, inputPath string) error {
	if inputPath == cliutil.StdinPath {
		return nil
	}
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("invalid input path %s: %w", inputPath, err)
	}
	if absOutput == absInput {
		return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
	}
	return nil
}

// printChanges writes one line per change followed by a summary line.
func printChanges(w io.Writer, source string, changes []normalizer.Change) {
	for _, c := range changes {
		loc := ""
		if c.HasLocation() {
			loc = " " + cliutil.Faint(c.Location())
		}
		cliutil.Writef(w, "  %s %s%s: %s\n", cliutil.RuleTitle(string(c.Rule)), cliutil.Path(c.Path), loc, c.Description)
	}
	cliutil.Writef(w, "%s: %s\n", cliutil.Path(cliutil.DisplayPath(source)), cliutil.Plural(len(changes), "change", "changes"))
}

package mcpserver

import (
	"context"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ammmze/truenas-openapi/cleaner"
	"github.com/ammmze/truenas-openapi/internal/config"
)

type normalizeTreeInput struct {
	OriginalDir     string   `json:"original_dir,omitempty"      jsonschema:"Directory holding the original schemas. Default: schemas/original under the configuration root"`
	CleanedDir      string   `json:"cleaned_dir,omitempty"       jsonschema:"Directory to write cleaned schemas to. Default: schemas/clean under the configuration root"`
	Jobs            int      `json:"jobs,omitempty"              jsonschema:"Maximum documents cleaned concurrently. Default: number of CPUs"`
	ContinueOnError bool     `json:"continue_on_error,omitempty" jsonschema:"Keep cleaning remaining documents when one fails"`
	Absent          string   `json:"absent,omitempty"            jsonschema:"What to do with documents that normalize to nothing: omit (default)\\, empty or error"`
	Rules           []string `json:"rules,omitempty"             jsonschema:"Rules to enable. Default: all"`
	Ignore          []string `json:"ignore,omitempty"            jsonschema:"Extra gitignore-style patterns to skip"`
	Offset          int      `json:"offset,omitempty"            jsonschema:"Skip the first N files (for pagination)"`
	Limit           int      `json:"limit,omitempty"             jsonschema:"Maximum number of files to return (default 100)"`
}

type treeFile struct {
	Path        string `json:"path"`
	ChangeCount int    `json:"change_count"`
	Absent      bool   `json:"absent,omitempty"`
	Removed     bool   `json:"removed,omitempty"`
	Written     bool   `json:"written"`
	Error       string `json:"error,omitempty"`
}

type normalizeTreeOutput struct {
	FileCount    int        `json:"file_count"`
	Returned     int        `json:"returned"`
	Files        []treeFile `json:"files,omitempty"`
	TotalChanges int        `json:"total_changes"`
	Written      int        `json:"written"`
	Failed       int        `json:"failed"`
}

func handleNormalizeTree(ctx context.Context, _ *mcp.CallToolRequest, input normalizeTreeInput) (*mcp.CallToolResult, normalizeTreeOutput, error) {
	treeCfg, err := buildTreeConfig(input)
	if err != nil {
		return errResult(err), normalizeTreeOutput{}, nil
	}

	originalDir := cfg.OriginalDir()
	if input.OriginalDir != "" {
		originalDir = filepath.Clean(input.OriginalDir)
	}
	cleanedDir := cfg.CleanedDir()
	if input.CleanedDir != "" {
		cleanedDir = filepath.Clean(input.CleanedDir)
	}

	result, err := cleaner.CleanTree(ctx, originalDir, cleanedDir, treeCfg)
	if err != nil {
		return errResult(err), normalizeTreeOutput{}, nil
	}

	output := normalizeTreeOutput{
		FileCount:    len(result.Files),
		TotalChanges: result.TotalChanges,
		Written:      result.Written,
		Failed:       result.Failed,
	}
	output.Files = makeSlice[treeFile](len(result.Files))
	for _, f := range result.Files {
		output.Files = append(output.Files, treeFile{
			Path:        f.RelPath,
			ChangeCount: f.ChangeCount,
			Absent:      f.Absent,
			Removed:     f.Removed,
			Written:     f.OutputPath != "",
			Error:       sanitizeError(f.Err),
		})
	}
	output.Files = paginate(output.Files, input.Offset, input.Limit)
	output.Returned = len(output.Files)
	return nil, output, nil
}

// buildTreeConfig layers the tool arguments over the configured tree settings.
func buildTreeConfig(input normalizeTreeInput) (cleaner.TreeConfig, error) {
	tc, err := cfg.TreeConfig(nil)
	if err != nil {
		return cleaner.TreeConfig{}, err
	}
	if len(input.Rules) > 0 {
		if tc.EnabledRules, err = config.ParseRules(input.Rules); err != nil {
			return cleaner.TreeConfig{}, err
		}
	}
	if input.Absent != "" {
		if tc.AbsentPolicy, err = cleaner.ParseAbsentPolicy(input.Absent); err != nil {
			return cleaner.TreeConfig{}, err
		}
	}
	if input.Jobs > 0 {
		tc.Jobs = input.Jobs
	}
	if input.ContinueOnError {
		tc.ContinueOnError = true
	}
	tc.Ignore = append(append([]string(nil), tc.Ignore...), input.Ignore...)
	return tc, nil
}

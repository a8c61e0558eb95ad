package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ammmze/truenas-openapi/cleaner"
	"github.com/ammmze/truenas-openapi/document"
	"github.com/ammmze/truenas-openapi/internal/config"
)

type normalizeInput struct {
	Schema          schemaInput `json:"schema"                     jsonschema:"The schema document to normalize"`
	Rules           []string    `json:"rules,omitempty"            jsonschema:"Rules to enable (split-type-array\\, normalize-items\\, prune-empty-object\\, prune-empty-default\\, merge-anyof-enum). Default: all"`
	Absent          string      `json:"absent,omitempty"           jsonschema:"What to do when the document normalizes to nothing: omit (default)\\, empty or error"`
	Format          string      `json:"format,omitempty"           jsonschema:"Output format: yaml or json. Default: output extension\\, then source format"`
	IncludeDocument bool        `json:"include_document,omitempty" jsonschema:"Include the cleaned document in output"`
	Output          string      `json:"output,omitempty"           jsonschema:"File path to write the cleaned document to"`
	Offset          int         `json:"offset,omitempty"           jsonschema:"Skip the first N changes (for pagination)"`
	Limit           int         `json:"limit,omitempty"            jsonschema:"Maximum number of changes to return (default 100)"`
}

type changeApplied struct {
	Rule        string `json:"rule"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Line        int    `json:"line,omitempty"`
	Column      int    `json:"column,omitempty"`
}

type normalizeOutput struct {
	ChangeCount  int             `json:"change_count"`
	Returned     int             `json:"returned"`
	Changes      []changeApplied `json:"changes,omitempty"`
	SourceFormat string          `json:"source_format"`
	Format       string          `json:"format"`
	Absent       bool            `json:"absent,omitempty"`
	WrittenTo    string          `json:"written_to,omitempty"`
	Document     string          `json:"document,omitempty"`
}

func handleNormalize(_ context.Context, _ *mcp.CallToolRequest, input normalizeInput) (*mcp.CallToolResult, normalizeOutput, error) {
	c, err := buildCleaner(input)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	doc, err := input.Schema.resolve()
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	result, err := c.CleanDocument(doc, input.Output)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	output := normalizeOutput{
		ChangeCount:  result.ChangeCount,
		SourceFormat: string(result.SourceFormat),
		Format:       string(result.Format),
		Absent:       result.Absent,
		WrittenTo:    result.OutputPath,
	}

	output.Changes = makeSlice[changeApplied](len(result.Changes))
	for _, ch := range result.Changes {
		output.Changes = append(output.Changes, changeApplied{
			Rule:        string(ch.Rule),
			Path:        ch.Path,
			Description: ch.Description,
			Line:        ch.Line,
			Column:      ch.Column,
		})
	}
	output.Changes = paginate(output.Changes, input.Offset, input.Limit)
	output.Returned = len(output.Changes)

	if input.IncludeDocument {
		output.Document = string(result.Document)
	}
	return nil, output, nil
}

// buildCleaner layers the tool arguments over the configured defaults.
func buildCleaner(input normalizeInput) (*cleaner.Cleaner, error) {
	names := cfg.Clean.Rules
	if len(input.Rules) > 0 {
		names = input.Rules
	}
	rules, err := config.ParseRules(names)
	if err != nil {
		return nil, err
	}

	absentName := cfg.Clean.Absent
	if input.Absent != "" {
		absentName = input.Absent
	}
	absent, err := cleaner.ParseAbsentPolicy(absentName)
	if err != nil {
		return nil, err
	}

	formatName := cfg.Clean.Format
	if input.Format != "" {
		formatName = input.Format
	}
	format, err := document.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	return &cleaner.Cleaner{
		EnabledRules: rules,
		AbsentPolicy: absent,
		Format:       format,
	}, nil
}

package normalizer

import (
	"fmt"
	"slices"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/ammmze/truenas-openapi/internal/pathutil"
)

// Rule identifies one normalization rule.
type Rule string

const (
	// RulePruneEmptyObject drops object schemas with no properties that
	// forbid additional properties.
	RulePruneEmptyObject Rule = "prune-empty-object"
	// RuleSplitTypeArray rewrites a list-valued type into type/nullable/oneOf.
	RuleSplitTypeArray Rule = "split-type-array"
	// RuleNormalizeItems collapses list-valued or missing items on array schemas.
	RuleNormalizeItems Rule = "normalize-items"
	// RulePruneEmptyDefault removes null or {} defaults from object schemas.
	RulePruneEmptyDefault Rule = "prune-empty-default"
	// RuleMergeAnyOfEnum folds string-only anyOf entries into the outer enum.
	RuleMergeAnyOfEnum Rule = "merge-anyof-enum"
	// RuleStripDeniedKey records removal of an internal bookkeeping key.
	// It cannot be disabled.
	RuleStripDeniedKey Rule = "strip-denied-key"
)

// PipelineRules returns the configurable rules in the order they are applied.
func PipelineRules() []Rule {
	return []Rule{
		RulePruneEmptyObject,
		RuleSplitTypeArray,
		RuleNormalizeItems,
		RulePruneEmptyDefault,
		RuleMergeAnyOfEnum,
	}
}

// ParseRule converts a rule name into a Rule.
func ParseRule(name string) (Rule, error) {
	r := Rule(strings.TrimSpace(strings.ToLower(name)))
	if slices.Contains(PipelineRules(), r) {
		return r, nil
	}
	return "", fmt.Errorf("normalizer: unknown rule %q", name)
}

// deniedKeys are bookkeeping fields emitted by schema authoring tools.
// They are stripped at every depth.
var deniedKeys = []string{"_name_", "_required_", "_attrs_order_"}

// DeniedKeys returns the keys that are always removed from output.
func DeniedKeys() []string {
	return slices.Clone(deniedKeys)
}

func isDenied(key string) bool {
	return slices.Contains(deniedKeys, key)
}

// Change records a single rule firing.
type Change struct {
	// Rule identifies the rule that fired
	Rule Rule
	// Path is the JSON path of the schema the rule applied to (e.g., "$.properties.acl")
	Path string
	// Description is a human-readable description of the change
	Description string
	// Line is the 1-based line of the schema in the source (0 if unknown)
	Line int
	// Column is the 1-based column of the schema in the source (0 if unknown)
	Column int
}

// HasLocation reports whether the change carries a source position.
func (c Change) HasLocation() bool {
	return c.Line > 0
}

// Location returns "line:column" for the change, or "" without a position.
func (c Change) Location() string {
	if !c.HasLocation() {
		return ""
	}
	return fmt.Sprintf("%d:%d", c.Line, c.Column)
}

// Result contains the output of one normalization.
type Result struct {
	// Node is the normalized tree, or nil when the input normalized to nothing
	Node *yaml.Node
	// Absent is true when the whole input was pruned
	Absent bool
	// Changes lists every rule firing in traversal order
	Changes []Change
	// ChangeCount is len(Changes)
	ChangeCount int
}

// HasChanges returns true if any rule fired.
func (r *Result) HasChanges() bool {
	return r.ChangeCount > 0
}

// Normalizer rewrites schema trees into the restricted dialect.
//
// A Normalizer holds configuration only; it is safe for concurrent use.
type Normalizer struct {
	// EnabledRules restricts which pipeline rules run.
	// If nil or empty, all rules are enabled. Denied keys are always stripped.
	EnabledRules []Rule
	// Logger receives a debug entry per rule firing. Defaults to NopLogger.
	Logger Logger
}

// New creates a new Normalizer with all rules enabled.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize normalizes node with the default configuration. It returns nil
// when the node normalizes to nothing.
func Normalize(node *yaml.Node) (*yaml.Node, error) {
	res, err := New().Normalize(node)
	if err != nil {
		return nil, err
	}
	return res.Node, nil
}

// Normalize returns a normalized copy of node. The input is not modified.
//
// The only error is *schemaerrors.InvalidTypeListError, which aborts the
// whole invocation.
func (n *Normalizer) Normalize(node *yaml.Node) (*Result, error) {
	path := pathutil.Get()
	defer pathutil.Put(path)

	w := &walker{
		cfg:  n,
		log:  n.log(),
		path: path,
	}
	out, err := w.walk(node)
	if err != nil {
		return nil, err
	}
	return &Result{
		Node:        out,
		Absent:      out == nil && node != nil,
		Changes:     w.changes,
		ChangeCount: len(w.changes),
	}, nil
}

func (n *Normalizer) log() Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return NopLogger{}
}

func (n *Normalizer) isRuleEnabled(rule Rule) bool {
	if rule == RuleStripDeniedKey || len(n.EnabledRules) == 0 {
		return true
	}
	return slices.Contains(n.EnabledRules, rule)
}

// walker carries the per-invocation traversal state.
type walker struct {
	cfg     *Normalizer
	log     Logger
	path    *pathutil.PathBuilder
	changes []Change

	// position of the mapping currently being rewritten
	line, column int
}

func (w *walker) enabled(rule Rule) bool {
	return w.cfg.isRuleEnabled(rule)
}

func (w *walker) record(rule Rule, format string, args ...any) {
	c := Change{
		Rule:        rule,
		Path:        w.path.String(),
		Description: fmt.Sprintf(format, args...),
		Line:        w.line,
		Column:      w.column,
	}
	w.changes = append(w.changes, c)
	w.log.Debug("applied rule", "rule", string(rule), "path", c.Path, "description", c.Description)
}

func (w *walker) walk(n *yaml.Node) (*yaml.Node, error) {
	n = resolve(n)
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		return w.document(n)
	case yaml.SequenceNode:
		return w.sequence(n)
	case yaml.MappingNode:
		return w.mapping(n)
	default:
		return cloneScalar(n), nil
	}
}

func (w *walker) document(n *yaml.Node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.DocumentNode, Line: n.Line, Column: n.Column}
	if len(n.Content) == 0 {
		return out, nil
	}
	root, err := w.walk(n.Content[0])
	if err != nil || root == nil {
		return nil, err
	}
	out.Content = []*yaml.Node{root}
	return out, nil
}

// sequence normalizes each element, dropping the ones that normalize to
// nothing. A sequence is never itself absent.
func (w *walker) sequence(n *yaml.Node) (*yaml.Node, error) {
	out := seqNode(make([]*yaml.Node, 0, len(n.Content))...)
	if n.Tag != "" {
		out.Tag = n.Tag
	}
	out.Line, out.Column = n.Line, n.Column
	for i, item := range n.Content {
		w.path.PushIndex(i)
		v, err := w.walk(item)
		w.path.Pop()
		if err != nil {
			return nil, err
		}
		if v != nil {
			out.Content = append(out.Content, v)
		}
	}
	return out, nil
}

// mapping runs the rule pipeline once on the node, then normalizes the
// surviving values. Rules never see the node again after its children
// change: a parent whose only property was pruned keeps an empty properties
// mapping.
func (w *walker) mapping(n *yaml.Node) (*yaml.Node, error) {
	w.line, w.column = n.Line, n.Column
	f := fieldsOf(n)

	if w.pruneEmptyObject(f) {
		return nil, nil
	}
	if err := w.splitTypeArray(f); err != nil {
		return nil, err
	}
	w.normalizeItems(f)
	w.pruneEmptyDefault(f)
	w.mergeAnyOfEnum(f)

	out := &fields{
		keys:   make([]*yaml.Node, 0, f.len()),
		values: make([]*yaml.Node, 0, f.len()),
	}
	for i, k := range f.keys {
		key := k.Value
		if isDenied(key) {
			w.line, w.column = n.Line, n.Column
			w.record(RuleStripDeniedKey, "removed internal key %q", key)
			continue
		}
		w.path.Push(key)
		v, err := w.walk(f.values[i])
		w.path.Pop()
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		out.keys = append(out.keys, copyKey(k))
		out.values = append(out.values, v)
	}

	node := out.node()
	node.Line, node.Column = n.Line, n.Column
	return node, nil
}

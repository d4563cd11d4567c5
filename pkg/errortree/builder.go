// Package errortree turns a nested validation result into an indented,
// human readable report of what failed and what the specification expected.
//
// A result is a *tree.Tree (or []any for list values) whose leaves are true
// for a passing value, false for a missing value or section, and an error
// or string describing any other failure.
package errortree

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/confreport/pkg/spec"
	"github.com/leapstack-labs/confreport/pkg/tree"
)

// DefaultPrefix marks every nested line of the rendered tree.
const DefaultPrefix = "⤷ "

// MissingSection names a root level result that is not a section.
const MissingSection = "[missing section]"

// Options configures a Builder. Zero values select the defaults.
type Options struct {
	Prefix    string
	Marker    string
	Delimiter string
	Logger    *slog.Logger
}

// Builder flattens validation results against a configuration and its
// specification.
type Builder struct {
	config    *tree.Tree
	spec      *tree.Tree
	prefix    string
	marker    string
	delimiter string
	logger    *slog.Logger
}

// NewBuilder creates a builder for one configuration/specification pair.
func NewBuilder(config, specTree *tree.Tree, opts Options) *Builder {
	b := &Builder{
		config:    config,
		spec:      specTree,
		prefix:    opts.Prefix,
		marker:    opts.Marker,
		delimiter: opts.Delimiter,
		logger:    opts.Logger,
	}
	if b.config == nil {
		b.config = tree.New()
	}
	if b.spec == nil {
		b.spec = tree.New()
	}
	if b.prefix == "" {
		b.prefix = DefaultPrefix
	}
	if b.marker == "" {
		b.marker = spec.DefaultMarker
	}
	if b.delimiter == "" {
		b.delimiter = spec.DefaultDelimiter
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	return b
}

// Build renders the report for result. It returns false when there is
// nothing to show, such as an all-passing result without includeValid.
func (b *Builder) Build(result any, includeMissing, includeValid bool) (string, bool) {
	return b.Report(result, includeMissing, includeValid).Text()
}

// Report normalizes and flattens result. Passing branches are collapsed
// unless includeValid is set, in which case every passing leaf is kept so
// it can be listed.
func (b *Builder) Report(result any, includeMissing, includeValid bool) *Report {
	normalized := Strip(result, b.marker)
	if !includeValid {
		normalized = Squash(normalized)
	}
	return &Report{
		Records:        b.Flatten(normalized),
		IncludeMissing: includeMissing,
		IncludeValid:   includeValid,
		prefix:         b.prefix,
	}
}

// Flatten walks an already normalized result depth first and returns one
// record per leaf, enriched with type information from the specification.
// Sequence items get the path segment item<N>, counting from 0.
func (b *Builder) Flatten(result any) []Record {
	var out []Record
	if _, ok := result.(*tree.Tree); !ok {
		if v, ok := result.(bool); ok && v {
			return nil
		}
		if _, ok := result.([]any); !ok {
			root := []string{MissingSection}
			return append(out, b.record(root, root, result))
		}
	}
	b.walk(result, nil, nil, &out)
	return out
}

// walk tracks two paths: the display path, which names list items, and the
// specification path, which only grows for section keys.
func (b *Builder) walk(node any, path, specPath []string, out *[]Record) {
	switch v := node.(type) {
	case *tree.Tree:
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			b.walk(child, appendPath(path, key), appendPath(specPath, key), out)
		}
	case []any:
		for i, item := range v {
			b.walk(item, appendPath(path, fmt.Sprintf("item%d", i)), specPath, out)
		}
	default:
		*out = append(*out, b.record(path, specPath, v))
	}
}

func appendPath(path []string, key string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), key)
}

func (b *Builder) record(path, specPath []string, leaf any) Record {
	r := Record{Path: path}
	switch v := leaf.(type) {
	case bool:
		if v {
			r.Outcome, r.Message = OutcomePass, PassMessage
		} else {
			r.Outcome, r.Message = OutcomeMissing, MissingMessage
		}
	case error:
		r.Outcome, r.Message = OutcomeFailure, v.Error()
	case nil:
		r.Outcome, r.Message = OutcomeMissing, MissingMessage
	default:
		r.Outcome, r.Message = OutcomeFailure, fmt.Sprint(v)
	}

	if err := b.enrich(&r, specPath); err != nil {
		r.EnrichErr = err
		b.logger.Warn("no usable specification for result",
			"path", strings.Join(path, "."), "error", err)
	}
	if v, err := tree.Lookup(b.config, path); err == nil {
		if s, err := tree.Sanitize(v); err == nil {
			r.Value = &s
		}
	}
	return r
}

// enrich fills the type fields of r from the specification entry at keys.
// List items share the list's own specification, and keys the
// specification does not declare fall back to the section's wildcard entry.
func (b *Builder) enrich(r *Record, keys []string) error {
	if len(keys) == 0 || keys[0] == MissingSection {
		return fmt.Errorf("result is not attached to a specification key")
	}

	node, err := tree.Lookup(b.spec, keys)
	if err != nil {
		wildcard := append(append([]string(nil), keys[:len(keys)-1]...), b.delimiter+"many"+b.delimiter)
		node, err = tree.Lookup(b.spec, wildcard)
		if err != nil {
			return err
		}
	}
	if _, ok := node.(*tree.Tree); ok {
		r.Type = "section"
		return nil
	}

	raw, err := tree.Sanitize(node)
	if err != nil {
		return err
	}
	r.Spec = raw
	ts, err := spec.Parse(raw)
	if err != nil {
		return err
	}
	r.Type = ts.Type
	r.Min, r.Max = ts.Bounds()
	r.Default, _ = ts.Default()
	return nil
}

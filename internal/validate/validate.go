// Package validate checks a configuration against the type strings of its
// specification, converts values to their declared types and fills in
// defaults. The result tree it produces is what the error report consumes.
package validate

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/confreport/pkg/spec"
	"github.com/leapstack-labs/confreport/pkg/tree"
)

// NoDefault is the default value that means "optional, no value". Such
// keys are filled with an empty string so they still have a value to show.
const NoDefault = "None"

// Options configures a Validator.
type Options struct {
	Delimiter string
	Logger    *slog.Logger
}

// Validator runs named checks over a configuration.
type Validator struct {
	delimiter string
	wildcard  string
	logger    *slog.Logger
	checks    map[string]Check
}

// New creates a validator with the built-in checks: integer, float,
// boolean, string, list, int_list, float_list, string_list, bool_list,
// option, ip_addr and pass.
func New(opts Options) *Validator {
	if opts.Delimiter == "" {
		opts.Delimiter = spec.DefaultDelimiter
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{
		delimiter: opts.Delimiter,
		wildcard:  opts.Delimiter + "many" + opts.Delimiter,
		logger:    opts.Logger,
		checks:    defaultChecks(),
	}
}

// Register adds or replaces the check for a type name.
func (v *Validator) Register(name string, c Check) {
	v.checks[name] = c
}

// CheckNames returns the names of the registered checks, sorted.
func (v *Validator) CheckNames() []string {
	names := make([]string, 0, len(v.checks))
	for name := range v.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Result holds the outcome of Validate.
type Result struct {
	// Config is a copy of the input with converted values, defaults filled
	// in and missing sections created.
	Config *tree.Tree
	// Tree mirrors the specification: true for a passing value, false for
	// a missing value or section, *CheckError for a failed check.
	Tree *tree.Tree
}

// Valid reports whether every leaf of the result passed.
func (r *Result) Valid() bool {
	return allTrue(r.Tree)
}

func allTrue(node any) bool {
	switch v := node.(type) {
	case *tree.Tree:
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			if !allTrue(child) {
				return false
			}
		}
		return true
	case bool:
		return v
	default:
		return false
	}
}

// Validate checks config against specTree. Check failures are reported in
// the result; only unusable specification keys return an error. config is
// not modified.
func (v *Validator) Validate(config, specTree *tree.Tree) (*Result, error) {
	if config == nil {
		config = tree.New()
	}
	if specTree == nil {
		return nil, fmt.Errorf("validate: specification is required")
	}
	out := config.Clone()
	res, err := v.section(out, specTree, nil)
	if err != nil {
		return nil, err
	}
	return &Result{Config: out, Tree: res}, nil
}

func (v *Validator) section(cfg, node *tree.Tree, path []string) (*tree.Tree, error) {
	res := tree.New()
	declared := make(map[string]bool)
	var wildcard any

	for _, key := range node.Keys() {
		k, err := spec.ClassifyKey(key, v.delimiter)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", joinPath(path, key), err)
		}
		switch k.Class {
		case spec.KeySectionDirective, spec.KeyEntryDirective:
			continue
		case spec.KeyReserved:
			if key == v.wildcard {
				wildcard, _ = node.Get(key)
			}
			continue
		}

		declared[key] = true
		sn, _ := node.Get(key)
		r, err := v.value(cfg, key, sn, path)
		if err != nil {
			return nil, err
		}
		res.Set(key, r)
	}

	if wildcard == nil {
		return res, nil
	}
	for _, key := range cfg.Keys() {
		if declared[key] {
			continue
		}
		r, err := v.value(cfg, key, wildcard, path)
		if err != nil {
			return nil, err
		}
		res.Set(key, r)
	}
	return res, nil
}

// value validates one key of cfg against its specification node, which is
// either a nested section or a type string.
func (v *Validator) value(cfg *tree.Tree, key string, node any, path []string) (any, error) {
	child := append(append([]string(nil), path...), key)

	if sub, ok := node.(*tree.Tree); ok {
		cv, exists := cfg.Get(key)
		if !exists {
			v.logger.Debug("creating missing section", "section", strings.Join(child, "."))
			created := tree.New()
			cfg.Set(key, created)
			return v.section(created, sub, child)
		}
		ct, ok := cv.(*tree.Tree)
		if !ok {
			return false, nil
		}
		return v.section(ct, sub, child)
	}

	raw, err := tree.Sanitize(node)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.Join(child, "."), err)
	}
	ts, err := parseTypeString(raw)
	if err != nil {
		return &CheckError{Reason: ReasonUnknownCheck, Value: raw}, nil
	}
	check, ok := v.checks[ts.Type]
	if !ok {
		return &CheckError{Reason: ReasonUnknownCheck, Value: ts.Type}, nil
	}

	cv, exists := cfg.Get(key)
	if _, isTree := cv.(*tree.Tree); exists && isTree {
		return false, nil
	}
	if !exists {
		def, ok := ts.Default()
		if !ok {
			return false, nil
		}
		if def == NoDefault {
			cfg.Set(key, "")
			return true, nil
		}
		cv = defaultValue(def, ts.Type)
		v.logger.Debug("filling default", "key", strings.Join(child, "."), "default", def)
	}

	converted, err := check(cv, ts)
	if err != nil {
		return err, nil
	}
	cfg.Set(key, converted)
	return true, nil
}

// parseTypeString accepts a bare type name ("string") as well as the full
// "typename(params)" form.
func parseTypeString(raw string) (*spec.TypeSpec, error) {
	if !strings.ContainsAny(raw, "()") {
		return &spec.TypeSpec{Raw: raw, Type: strings.TrimSpace(raw)}, nil
	}
	return spec.Parse(raw)
}

// defaultValue turns a textual default into the shape the check expects.
// List defaults are written as comma separated items.
func defaultValue(def, typeName string) any {
	if typeName != "list" && !strings.HasSuffix(typeName, "_list") {
		return def
	}
	if strings.TrimSpace(def) == "" {
		return []any{}
	}
	parts := strings.Split(def, ",")
	items := make([]any, len(parts))
	for i, p := range parts {
		items[i] = spec.Unquote(strings.TrimSpace(p))
	}
	return items
}

func joinPath(path []string, key string) string {
	if len(path) == 0 {
		return key
	}
	return strings.Join(path, ".") + "." + key
}

package configtables

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/confreport/pkg/spec"
	"github.com/leapstack-labs/confreport/pkg/tree"
)

// Builder walks a specification alongside its validated configuration and
// gathers one Section per section path.
type Builder struct {
	delimiter string
	logger    *slog.Logger
}

// NewBuilder creates a builder. An empty delimiter selects
// spec.DefaultDelimiter and a nil logger discards output.
func NewBuilder(delimiter string, logger *slog.Logger) *Builder {
	if delimiter == "" {
		delimiter = spec.DefaultDelimiter
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{delimiter: delimiter, logger: logger}
}

// Build traverses specTree and returns the gathered sections in traversal
// order. Neither input is modified.
func (b *Builder) Build(config, specTree *tree.Tree) (*SectionSet, error) {
	if config == nil || specTree == nil {
		return nil, fmt.Errorf("build tables: config and specification are required")
	}
	set := newSectionSet()
	if err := b.walk(set, nil, config, specTree); err != nil {
		return nil, err
	}
	b.logger.Debug("built table sections", "sections", set.Len())
	return set, nil
}

func (b *Builder) walk(set *SectionSet, keys []string, config, node *tree.Tree) error {
	path := strings.Join(keys, ".")
	var sec *Section
	section := func() *Section {
		if sec == nil {
			sec = set.ensure(path)
		}
		return sec
	}
	// The root only gets a section if it declares entries or directives.
	if len(keys) > 0 {
		section()
	}

	for _, key := range node.Keys() {
		raw, _ := node.Get(key)
		k, err := spec.ClassifyKey(key, b.delimiter)
		if err != nil {
			return fmt.Errorf("section %q: %w", path, err)
		}

		switch k.Class {
		case spec.KeyReserved:
			continue

		case spec.KeySectionDirective:
			val, err := tree.Sanitize(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", joinPath(keys, key), err)
			}
			section().Directives[k.Directive] = val

		case spec.KeyEntryDirective:
			if target, ok := node.Subtree(k.Entry); ok && target != nil {
				child := append(append([]string(nil), keys...), k.Entry)
				if _, err := tree.LookupTree(config, child); err != nil {
					return &SpecConfigMismatchError{Path: strings.Join(child, "."), Err: err}
				}
				val, err := tree.Sanitize(raw)
				if err != nil {
					return fmt.Errorf("%s: %w", joinPath(keys, key), err)
				}
				set.ensure(strings.Join(child, ".")).Directives[k.Directive] = val
				continue
			}
			if !k.Directive.EntryLevel() {
				return fmt.Errorf("section %q: %w", path,
					&spec.UnknownDirectiveError{Name: k.Directive.String(), Key: key, EntryLevel: true})
			}
			if _, err := b.configValue(config, keys, k.Entry); err != nil {
				return err
			}
			val, err := tree.Sanitize(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", joinPath(keys, key), err)
			}
			e := section().entry(k.Entry)
			switch k.Directive {
			case spec.DirectiveTitle:
				e.Title = &val
			case spec.DirectiveNote:
				e.Note = &val
			case spec.DirectiveIgnore:
				e.Ignore = spec.IsTrue(val)
			}

		case spec.KeyPlain:
			child := append(append([]string(nil), keys...), key)
			if sub, ok := raw.(*tree.Tree); ok {
				if _, err := tree.LookupTree(config, child); err != nil {
					return &SpecConfigMismatchError{Path: strings.Join(child, "."), Err: err}
				}
				if err := b.walk(set, child, config, sub); err != nil {
					return err
				}
				continue
			}
			cv, err := b.configValue(config, keys, key)
			if err != nil {
				return err
			}
			val, err := tree.Sanitize(cv)
			if err != nil {
				return fmt.Errorf("%s: %w", strings.Join(child, "."), err)
			}
			section().entry(key).Value = &val
		}
	}
	return nil
}

func (b *Builder) configValue(config *tree.Tree, keys []string, key string) (any, error) {
	full := append(append([]string(nil), keys...), key)
	v, err := tree.Lookup(config, full)
	if err != nil {
		return nil, &SpecConfigMismatchError{Path: strings.Join(full, "."), Err: err}
	}
	return v, nil
}

func joinPath(keys []string, key string) string {
	if len(keys) == 0 {
		return key
	}
	return strings.Join(keys, ".") + "." + key
}

// Package configtables renders a validated configuration as summary tables
// driven by directives in its specification.
//
// A Builder walks the specification and collects, per section path, the
// configuration values of its entries together with the section and entry
// directives (delimiter-marked keys such as __header or option1__note). An
// Assembler then resolves the directives into a new set of sections, lays
// out rows and renders each section through a Renderer.
//
// Directive values are compared as text: ignore and spacer fire only for
// "true", and a toggle hides its section only when the referenced entry
// reads "false" (both case-insensitive).
package configtables

import (
	"log/slog"

	"github.com/leapstack-labs/confreport/pkg/tree"
)

// Options configures Generate.
type Options struct {
	Delimiter string
	Renderer  Renderer
	Logger    *slog.Logger
}

// Generate builds, assembles and renders the tables for config and
// specTree in one call.
func Generate(config, specTree *tree.Tree, opts Options) (*SectionSet, error) {
	built, err := NewBuilder(opts.Delimiter, opts.Logger).Build(config, specTree)
	if err != nil {
		return nil, err
	}
	asm := NewAssembler(opts.Delimiter, opts.Renderer, opts.Logger)
	set, err := asm.Assemble(built, config)
	if err != nil {
		return nil, err
	}
	if err := asm.Render(set); err != nil {
		return nil, err
	}
	return set, nil
}

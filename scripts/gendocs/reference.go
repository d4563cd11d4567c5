package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/confreport/internal/cli/config"
	"github.com/leapstack-labs/confreport/internal/validate"
	"github.com/leapstack-labs/confreport/pkg/configtables"
	"github.com/leapstack-labs/confreport/pkg/spec"
)

var directiveDocs = map[spec.DirectiveKind]string{
	spec.DirectiveIgnore: `"true" leaves the section or entry out of the tables`,
	spec.DirectiveType:   "section layout, one of the section types below",
	spec.DirectiveHeader: "comma separated column headers, at most three",
	spec.DirectiveToggle: "config path of a boolean that hides the section when false",
	spec.DirectiveParent: "path of a section this section is merged into",
	spec.DirectiveWrap:   "number of list_values items per line",
	spec.DirectiveTitle:  "table title, or the label of an entry",
	spec.DirectiveNote:   "third column text for an entry or a list row",
	spec.DirectiveSpacer: `"true" adds a blank row before a merged section`,
}

var sectionTypeDocs = [][]string{
	{configtables.TypeVariable, "one row per configured key, the title becomes the table title"},
	{configtables.TypeListValues, "a single row listing the values"},
	{configtables.TypeListKeys, "a single row listing entry titles, or keys"},
	{configtables.TypeListAll, "a single row listing title (value) pairs"},
}

// generateReferenceDocs writes specification.md.
func generateReferenceDocs(outDir string) error {
	log.Printf("Generating reference docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outDir, "specification.md")
	if err := os.WriteFile(path, specificationPage(config.DefaultDelimiter), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("  Generated specification.md")
	return nil
}

func specificationPage(delim string) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("Specification Reference", "Directives, section types, checks and table styles")
	w.GeneratedMarker()

	w.Header(1, "Specification Reference")

	w.Header(2, "Directives")
	w.Paragraph(fmt.Sprintf("Section directives are written %s, entry directives %s.",
		InlineCode(delim+"name"), InlineCode("entry"+delim+"name")))
	var rows [][]string
	for kind := spec.DirectiveIgnore; kind <= spec.DirectiveSpacer; kind++ {
		scope := "section"
		if kind.EntryLevel() {
			scope = "section, entry"
		}
		rows = append(rows, []string{InlineCode(delim + kind.String()), scope, directiveDocs[kind]})
	}
	w.Table([]string{"Directive", "Scope", "Meaning"}, rows)

	w.Header(2, "Section Types")
	rows = rows[:0]
	for _, t := range sectionTypeDocs {
		rows = append(rows, []string{InlineCode(t[0]), t[1]})
	}
	w.Table([]string{"Type", "Layout"}, rows)

	w.Header(2, "Checks")
	w.Paragraph("Type strings take " + InlineCode("min") + ", " + InlineCode("max") + " and " +
		InlineCode("default") + " parameters; the first two bare parameters are min and max.")
	var checks []string
	for _, name := range validate.New(validate.Options{}).CheckNames() {
		checks = append(checks, InlineCode(name+"()"))
	}
	w.BulletList(checks)

	w.Header(2, "Table Styles")
	var styles []string
	for _, name := range configtables.StyleNames() {
		styles = append(styles, InlineCode(name))
	}
	w.BulletList(styles)
	return w.Bytes()
}

package configtables

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/leapstack-labs/confreport/pkg/spec"
	"github.com/leapstack-labs/confreport/pkg/tree"
)

// Section type directive values.
const (
	TypeVariable   = "variable"
	TypeListValues = "list_values"
	TypeListKeys   = "list_keys"
	TypeListAll    = "list_all"
)

var sectionTypes = []string{TypeVariable, TypeListValues, TypeListKeys, TypeListAll}

// DefaultWrap is the number of list_values items per line without __wrap.
const DefaultWrap = 6

// Assembler resolves section directives, lays out rows and renders tables.
type Assembler struct {
	delimiter string
	renderer  Renderer
	logger    *slog.Logger
}

// NewAssembler creates an assembler. A nil renderer selects the light
// text style and a nil logger discards output.
func NewAssembler(delimiter string, renderer Renderer, logger *slog.Logger) *Assembler {
	if delimiter == "" {
		delimiter = spec.DefaultDelimiter
	}
	if renderer == nil {
		renderer = defaultRenderer()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{delimiter: delimiter, renderer: renderer, logger: logger}
}

// Assemble returns a new section set with directives resolved and rows laid
// out. Directives are applied per section in the order ignore, toggle, type,
// header. Parent merges run afterwards, a section only once every section
// naming it as parent has been merged into it, so declaration order does not
// matter. Ignored and parent-merged sections are left out of the result.
// built is not modified.
func (a *Assembler) Assemble(built *SectionSet, config *tree.Tree) (*SectionSet, error) {
	work := built.clone()
	var ignored []string
	var children []*Section

	for _, path := range built.Paths() {
		sec, ok := work.Get(path)
		if !ok {
			continue
		}

		if v, ok := sec.Directive(spec.DirectiveIgnore); ok && spec.IsTrue(v) {
			a.logger.Debug("section ignored", "section", path)
			ignored = append(ignored, path)
			continue
		}
		if v, ok := sec.Directive(spec.DirectiveToggle); ok && toggledOff(built, v) {
			a.logger.Debug("section toggled off", "section", path, "toggle", v)
			ignored = append(ignored, path)
			continue
		}
		if err := a.applyType(sec, config); err != nil {
			return nil, err
		}
		a.applyHeader(sec)
		if target, ok := sec.Directive(spec.DirectiveParent); ok {
			target = strings.TrimSpace(target)
			if _, ok := built.Get(target); !ok || target == path {
				return nil, &ParentNotFoundError{Path: path, Parent: target}
			}
			children = append(children, sec)
		}
	}

	if err := a.mergeParents(work, children); err != nil {
		return nil, err
	}
	for _, path := range ignored {
		work.remove(path)
	}
	for _, sec := range work.Sections() {
		sec.Rows = buildRows(sec)
	}
	return work, nil
}

// mergeParents merges children into their parents, deepest first. A section
// that is itself a parent waits until nothing pending still targets it.
func (a *Assembler) mergeParents(work *SectionSet, children []*Section) error {
	pending := make(map[string]int, len(children))
	for _, sec := range children {
		pending[parentOf(sec)]++
	}
	for len(children) > 0 {
		var rest []*Section
		for _, sec := range children {
			if pending[sec.Path] > 0 {
				rest = append(rest, sec)
				continue
			}
			if err := a.applyParent(work, sec); err != nil {
				return err
			}
			pending[parentOf(sec)]--
		}
		if len(rest) == len(children) {
			paths := make([]string, len(rest))
			for i, sec := range rest {
				paths[i] = sec.Path
			}
			return &ParentCycleError{Paths: paths}
		}
		children = rest
	}
	return nil
}

func parentOf(sec *Section) string {
	target, _ := sec.Directive(spec.DirectiveParent)
	return strings.TrimSpace(target)
}

// Render renders every section with rows through the assembler's renderer.
// Sections without rows get no table.
func (a *Assembler) Render(set *SectionSet) error {
	for _, sec := range set.Sections() {
		if len(sec.Rows) == 0 {
			sec.Table = ""
			continue
		}
		out, err := a.renderer.RenderTable(Table{
			Title:  sec.Directives[spec.DirectiveTitle],
			Rows:   sec.Rows,
			Header: sec.Header,
		})
		if err != nil {
			return fmt.Errorf("section %q: %w", sec.Path, err)
		}
		sec.Table = out
	}
	return nil
}

// toggledOff reports whether a "section.key" toggle points at an entry whose
// value is the text "false". A toggle naming a missing section or entry does
// not fire. Lookups go against the built sections so that merges done during
// assembly do not hide the target.
func toggledOff(built *SectionSet, target string) bool {
	target = strings.TrimSpace(target)
	section, key := "", target
	if i := strings.LastIndex(target, "."); i >= 0 {
		section, key = target[:i], target[i+1:]
	}
	sec, ok := built.Get(section)
	if !ok {
		return false
	}
	e, ok := sec.Entry(key)
	if !ok || e.Value == nil {
		return false
	}
	return spec.IsFalse(*e.Value)
}

func (a *Assembler) applyType(sec *Section, config *tree.Tree) error {
	kind, ok := sec.Directive(spec.DirectiveType)
	if !ok {
		return nil
	}
	kind = strings.TrimSpace(kind)
	if !isSectionType(kind) {
		return &InvalidSectionTypeError{Path: sec.Path, Type: kind}
	}
	if err := mergeConfigSection(sec, config); err != nil {
		return err
	}

	wrap := DefaultWrap
	if w, ok := sec.Directive(spec.DirectiveWrap); ok {
		n, err := strconv.Atoi(strings.TrimSpace(w))
		if err != nil || n < 1 {
			return &InvalidDirectiveValueError{Path: sec.Path, Directive: spec.DirectiveWrap.String(), Value: w}
		}
		wrap = n
	}

	var value string
	switch kind {
	case TypeVariable:
		return nil
	case TypeListValues:
		var values []string
		for pair := sec.Entries.Oldest(); pair != nil; pair = pair.Next() {
			if e := pair.Value; !e.Ignore && e.Value != nil {
				values = append(values, *e.Value)
			}
		}
		value = joinWrapped(values, wrap)
	case TypeListKeys:
		var labels []string
		for pair := sec.Entries.Oldest(); pair != nil; pair = pair.Next() {
			if e := pair.Value; !e.Ignore {
				labels = append(labels, e.Label())
			}
		}
		value = strings.Join(labels, ", ")
	case TypeListAll:
		var items []string
		for pair := sec.Entries.Oldest(); pair != nil; pair = pair.Next() {
			e := pair.Value
			if e.Ignore {
				continue
			}
			v := ""
			if e.Value != nil {
				v = *e.Value
			}
			items = append(items, fmt.Sprintf("%s (%s)", e.Label(), v))
		}
		value = strings.Join(items, ", ")
	}

	title := sec.Directives[spec.DirectiveTitle]
	single := &Entry{Key: sec.Path, Title: &title, Value: &value}
	if note, ok := sec.Directive(spec.DirectiveNote); ok {
		single.Note = &note
	}
	sec.Entries = orderedmap.New[string, *Entry]()
	sec.Entries.Set(sec.Path, single)
	delete(sec.Directives, spec.DirectiveTitle)
	delete(sec.Directives, spec.DirectiveNote)
	return nil
}

func isSectionType(kind string) bool {
	for _, t := range sectionTypes {
		if t == kind {
			return true
		}
	}
	return false
}

// mergeConfigSection loads every live key of the section's configuration
// into its entries in configuration order, keeping titles and notes declared
// in the specification. Nested sections are skipped; they are sections of
// their own.
func mergeConfigSection(sec *Section, config *tree.Tree) error {
	var keys []string
	if sec.Path != "" {
		keys = strings.Split(sec.Path, ".")
	}
	v, err := tree.Lookup(config, keys)
	if err != nil {
		return &SpecConfigMismatchError{Path: sec.Path, Err: err}
	}
	values, ok := v.(*tree.Tree)
	if !ok {
		return nil
	}
	merged := orderedmap.New[string, *Entry]()
	for _, key := range values.Keys() {
		raw, _ := values.Get(key)
		if _, isTree := raw.(*tree.Tree); isTree {
			continue
		}
		s, err := tree.Sanitize(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", joinPath(keys, key), err)
		}
		e := sec.entry(key)
		e.Value = &s
		merged.Set(key, e)
	}
	for pair := sec.Entries.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := merged.Get(pair.Key); !ok {
			merged.Set(pair.Key, pair.Value)
		}
	}
	sec.Entries = merged
	return nil
}

func (a *Assembler) applyHeader(sec *Section) {
	raw, ok := sec.Directive(spec.DirectiveHeader)
	if !ok {
		return
	}
	fields, err := parseHeader(raw)
	if err != nil {
		a.logger.Warn("ignoring malformed header", "section", sec.Path, "header", raw, "error", err)
		return
	}

	title, value := fields[0], ""
	if len(fields) > 1 {
		value = fields[1]
	}
	header := &Entry{Key: headerKey, Title: &title, Value: &value}
	if len(fields) > 2 {
		header.Note = &fields[2]
	}

	entries := orderedmap.New[string, *Entry]()
	entries.Set(headerKey, header)
	for pair := sec.Entries.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == headerKey {
			continue
		}
		entries.Set(pair.Key, pair.Value)
	}
	sec.Entries = entries
	sec.Header = true
}

var errEmptyHeader = errors.New("header is empty")

// parseHeader splits "title[, value[, note]]".
func parseHeader(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errEmptyHeader
	}
	parts := strings.Split(raw, ",")
	if len(parts) > 3 {
		return nil, fmt.Errorf("header has %d fields, at most 3 allowed", len(parts))
	}
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = tree.SanitizeString(strings.TrimSpace(p))
	}
	return fields, nil
}

func (a *Assembler) applyParent(work *SectionSet, sec *Section) error {
	target := parentOf(sec)
	parent, ok := work.Get(target)
	if !ok || parent == sec {
		return &ParentNotFoundError{Path: sec.Path, Parent: target}
	}

	empty := ""
	if v, ok := sec.Directive(spec.DirectiveSpacer); ok && spec.IsTrue(v) {
		setIfAbsent(parent, sec.Path+a.delimiter+"spacer", &Entry{Title: &empty, Value: &empty})
	}
	if title, ok := sec.Directive(spec.DirectiveTitle); ok {
		setIfAbsent(parent, sec.Path+a.delimiter+"title", &Entry{Title: &title, Value: &empty})
	}
	for pair := sec.Entries.Oldest(); pair != nil; pair = pair.Next() {
		setIfAbsent(parent, pair.Key, pair.Value)
	}

	a.logger.Debug("merged section into parent", "section", sec.Path, "parent", target)
	work.remove(sec.Path)
	return nil
}

func setIfAbsent(sec *Section, key string, e *Entry) {
	if _, ok := sec.Entries.Get(key); ok {
		return
	}
	e.Key = key
	sec.Entries.Set(key, e)
}

// buildRows lays out one row per visible entry and pads every row to the
// widest one so a section never mixes column counts.
func buildRows(sec *Section) [][]string {
	var rows [][]string
	width := 0
	for pair := sec.Entries.Oldest(); pair != nil; pair = pair.Next() {
		e := pair.Value
		if e.Ignore || e.Value == nil {
			continue
		}
		row := []string{e.Label(), *e.Value}
		if e.Note != nil {
			row = append(row, *e.Note)
		}
		if len(row) > width {
			width = len(row)
		}
		rows = append(rows, row)
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	if len(rows) == 0 {
		sec.Header = false
	}
	return rows
}

// joinWrapped joins items with ", ", starting a new line every perLine items.
func joinWrapped(items []string, perLine int) string {
	var lines []string
	for i := 0; i < len(items); i += perLine {
		end := i + perLine
		if end > len(items) {
			end = len(items)
		}
		lines = append(lines, strings.Join(items[i:end], ", "))
	}
	return strings.Join(lines, "\n")
}

package configtables

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/leapstack-labs/confreport/pkg/spec"
)

// headerKey is the synthetic entry that carries a section's header row.
const headerKey = "__header__"

// Entry is one row candidate of a section.
type Entry struct {
	Key    string
	Value  *string
	Title  *string
	Note   *string
	Ignore bool
}

// Label is the first column of the entry's row: its title, or its key.
func (e *Entry) Label() string {
	if e.Title != nil {
		return *e.Title
	}
	return e.Key
}

func (e *Entry) clone() *Entry {
	cp := *e
	return &cp
}

// Section is the table data gathered for one dotted section path.
type Section struct {
	Path       string
	Entries    *orderedmap.OrderedMap[string, *Entry]
	Directives map[spec.DirectiveKind]string

	// Header is set when Rows[0] is a header row.
	Header bool
	// Rows holds one row per visible entry, all of the same width.
	Rows [][]string
	// Table is the rendered text, empty when the section has no rows.
	Table string
}

func newSection(path string) *Section {
	return &Section{
		Path:       path,
		Entries:    orderedmap.New[string, *Entry](),
		Directives: make(map[spec.DirectiveKind]string),
	}
}

// Directive returns the section-level directive value of kind.
func (s *Section) Directive(kind spec.DirectiveKind) (string, bool) {
	v, ok := s.Directives[kind]
	return v, ok
}

// Entry returns the entry stored under key.
func (s *Section) Entry(key string) (*Entry, bool) {
	return s.Entries.Get(key)
}

// entry returns the entry for key, creating it at the end if needed.
func (s *Section) entry(key string) *Entry {
	if e, ok := s.Entries.Get(key); ok {
		return e
	}
	e := &Entry{Key: key}
	s.Entries.Set(key, e)
	return e
}

func (s *Section) clone() *Section {
	cp := newSection(s.Path)
	for pair := s.Entries.Oldest(); pair != nil; pair = pair.Next() {
		cp.Entries.Set(pair.Key, pair.Value.clone())
	}
	for k, v := range s.Directives {
		cp.Directives[k] = v
	}
	cp.Header = s.Header
	return cp
}

// SectionSet is an ordered collection of sections keyed by dotted path.
type SectionSet struct {
	sections *orderedmap.OrderedMap[string, *Section]
}

func newSectionSet() *SectionSet {
	return &SectionSet{sections: orderedmap.New[string, *Section]()}
}

// Get returns the section at path.
func (s *SectionSet) Get(path string) (*Section, bool) {
	return s.sections.Get(path)
}

// Len returns the number of sections.
func (s *SectionSet) Len() int {
	return s.sections.Len()
}

// Paths returns the section paths in order.
func (s *SectionSet) Paths() []string {
	paths := make([]string, 0, s.sections.Len())
	for pair := s.sections.Oldest(); pair != nil; pair = pair.Next() {
		paths = append(paths, pair.Key)
	}
	return paths
}

// Sections returns the sections in order.
func (s *SectionSet) Sections() []*Section {
	out := make([]*Section, 0, s.sections.Len())
	for pair := s.sections.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Tables returns the rendered table text keyed by path. Sections without
// rows are absent.
func (s *SectionSet) Tables() map[string]string {
	out := make(map[string]string)
	for _, sec := range s.Sections() {
		if sec.Table != "" {
			out[sec.Path] = sec.Table
		}
	}
	return out
}

// Concat joins every rendered table with a blank line. It returns false when
// no section produced a table.
func (s *SectionSet) Concat() (string, bool) {
	var tables []string
	for _, sec := range s.Sections() {
		if sec.Table != "" {
			tables = append(tables, strings.TrimRight(sec.Table, "\n"))
		}
	}
	if len(tables) == 0 {
		return "", false
	}
	return strings.Join(tables, "\n\n"), true
}

func (s *SectionSet) ensure(path string) *Section {
	if sec, ok := s.sections.Get(path); ok {
		return sec
	}
	sec := newSection(path)
	s.sections.Set(path, sec)
	return sec
}

func (s *SectionSet) remove(path string) {
	s.sections.Delete(path)
}

func (s *SectionSet) clone() *SectionSet {
	out := newSectionSet()
	for pair := s.sections.Oldest(); pair != nil; pair = pair.Next() {
		out.sections.Set(pair.Key, pair.Value.clone())
	}
	return out
}

type sectionJSON struct {
	Path   string     `json:"path"`
	Title  string     `json:"title,omitempty"`
	Header bool       `json:"header"`
	Rows   [][]string `json:"rows"`
	Table  string     `json:"table,omitempty"`
}

// MarshalJSON encodes the sections as an ordered array.
func (s *SectionSet) MarshalJSON() ([]byte, error) {
	out := make([]sectionJSON, 0, s.Len())
	for _, sec := range s.Sections() {
		rows := sec.Rows
		if rows == nil {
			rows = [][]string{}
		}
		out = append(out, sectionJSON{
			Path:   sec.Path,
			Title:  sec.Directives[spec.DirectiveTitle],
			Header: sec.Header,
			Rows:   rows,
			Table:  sec.Table,
		})
	}
	return json.Marshal(out)
}

package configtables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table is the input handed to a Renderer.
type Table struct {
	Title string
	Rows  [][]string
	// Header marks Rows[0] as a header row.
	Header bool
}

// Renderer turns row data into table text. Implementations must reject
// malformed rows with *InvalidTableTypeError.
type Renderer interface {
	RenderTable(t Table) (string, error)
}

// Format selects the output syntax of a PrettyRenderer.
type Format string

// Output formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
)

// Style names accepted by NewPrettyRenderer.
const (
	StyleASCII   = "ascii"
	StyleLight   = "light"
	StyleDouble  = "double"
	StyleRounded = "rounded"
	StyleBold    = "bold"
)

var styles = map[string]table.Style{
	StyleASCII:   table.StyleDefault,
	StyleLight:   table.StyleLight,
	StyleDouble:  table.StyleDouble,
	StyleRounded: table.StyleRounded,
	StyleBold:    table.StyleBold,
}

// StyleNames returns the accepted style names, sorted.
func StyleNames() []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrettyRenderer renders tables with go-pretty.
type PrettyRenderer struct {
	style  table.Style
	name   string
	format Format
}

// NewPrettyRenderer returns a renderer for a named style. An empty style
// selects "light" and an empty format selects text.
func NewPrettyRenderer(style string, format Format) (*PrettyRenderer, error) {
	if style == "" {
		style = StyleLight
	}
	st, ok := styles[strings.ToLower(style)]
	if !ok {
		return nil, &InvalidTableTypeError{
			Style:  style,
			Reason: "unknown style, want one of " + strings.Join(StyleNames(), ", "),
		}
	}
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatMarkdown, FormatCSV, FormatHTML:
	default:
		return nil, &InvalidTableTypeError{Style: style, Reason: fmt.Sprintf("unknown format %q", format)}
	}

	// Keep header text as written instead of go-pretty's upper-casing.
	st.Format.Header = text.FormatDefault
	return &PrettyRenderer{style: st, name: style, format: format}, nil
}

func defaultRenderer() Renderer {
	r, _ := NewPrettyRenderer(StyleLight, FormatText)
	return r
}

// RenderTable implements Renderer.
func (r *PrettyRenderer) RenderTable(t Table) (string, error) {
	if len(t.Rows) == 0 {
		return "", &InvalidTableTypeError{Style: r.name, Reason: "no rows"}
	}
	width := len(t.Rows[0])
	if width == 0 {
		return "", &InvalidTableTypeError{Style: r.name, Reason: "row 0 has no columns"}
	}
	for i, row := range t.Rows {
		if len(row) != width {
			return "", &InvalidTableTypeError{
				Style:  r.name,
				Reason: fmt.Sprintf("row %d has %d columns, expected %d", i, len(row), width),
			}
		}
	}

	w := table.NewWriter()
	w.SetStyle(r.style)
	if t.Title != "" {
		w.SetTitle(t.Title)
	}
	rows := t.Rows
	if t.Header {
		w.AppendHeader(toRow(rows[0]))
		rows = rows[1:]
	}
	for _, row := range rows {
		w.AppendRow(toRow(row))
	}

	switch r.format {
	case FormatMarkdown:
		return w.RenderMarkdown(), nil
	case FormatCSV:
		return w.RenderCSV(), nil
	case FormatHTML:
		return w.RenderHTML(), nil
	default:
		return w.Render(), nil
	}
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

package errortree

import (
	"encoding/json"
	"strings"
)

// Report is the flattened outcome of one validation run.
type Report struct {
	Records        []Record
	IncludeMissing bool
	IncludeValid   bool

	prefix string
}

// Valid reports whether no record is missing or failing.
func (r *Report) Valid() bool {
	for _, rec := range r.Records {
		if rec.Outcome != OutcomePass {
			return false
		}
	}
	return true
}

// Visible returns the records selected by IncludeMissing and IncludeValid.
func (r *Report) Visible() []Record {
	var out []Record
	for _, rec := range r.Records {
		switch {
		case rec.Outcome == OutcomePass && !r.IncludeValid:
		case rec.Outcome == OutcomeMissing && !r.IncludeMissing:
		default:
			out = append(out, rec)
		}
	}
	return out
}

// Text renders the visible records as an indented tree. The first path
// segment of a record starts unindented, each further section is marked
// with the prefix and indented two more spaces, and the last segment
// carries the message followed by the expected type one level deeper.
// It returns false when no record is visible.
func (r *Report) Text() (string, bool) {
	prefix := r.prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	var lines []string
	for _, rec := range r.Visible() {
		indent := 0
		for i, seg := range rec.Path {
			switch {
			case i == len(rec.Path)-1:
				lines = append(lines,
					pad(indent)+prefix+seg+": "+rec.Message,
					pad(indent+2)+prefix+Format(rec))
			case i == 0:
				lines = append(lines, seg)
			default:
				lines = append(lines, pad(indent)+prefix+seg)
				indent += 2
			}
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

func pad(n int) string {
	return strings.Repeat(" ", n)
}

// MarshalJSON encodes the validity flag and the visible records.
func (r *Report) MarshalJSON() ([]byte, error) {
	records := r.Visible()
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(struct {
		Valid   bool     `json:"valid"`
		Records []Record `json:"records"`
	}{Valid: r.Valid(), Records: records})
}

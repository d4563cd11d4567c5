package spec

import "strings"

// Param is one comma-separated parameter of a type string. Bare tokens have
// HasValue false and are significant by position.
type Param struct {
	Key      string
	Value    string
	HasValue bool
}

// TypeSpec is a parsed type string such as integer(min=1, max=10, default=5).
type TypeSpec struct {
	Raw    string
	Type   string
	Params []Param
}

// Parse parses "<typename>(<k1>[=<v1>], ...)". The input must contain
// exactly one "(" and one ")" in that order. Quotes around a value are
// stripped; bare tokens are kept as written.
func Parse(input string) (*TypeSpec, error) {
	open := strings.Count(input, "(")
	closing := strings.Count(input, ")")
	switch {
	case open == 0:
		return nil, &MalformedSpecError{Input: input, Reason: `missing "("`}
	case open > 1:
		return nil, &MalformedSpecError{Input: input, Reason: `more than one "("`}
	case closing == 0:
		return nil, &MalformedSpecError{Input: input, Reason: `missing ")"`}
	case closing > 1:
		return nil, &MalformedSpecError{Input: input, Reason: `more than one ")"`}
	}

	lp := strings.Index(input, "(")
	rp := strings.LastIndex(input, ")")
	if rp < lp {
		return nil, &MalformedSpecError{Input: input, Reason: `")" before "("`}
	}

	ts := &TypeSpec{
		Raw:  input,
		Type: strings.TrimSpace(input[:lp]),
	}
	body := input[lp+1 : rp]
	if strings.TrimSpace(body) == "" {
		return ts, nil
	}

	for _, item := range strings.Split(body, ",") {
		parts := strings.Split(item, "=")
		switch len(parts) {
		case 1:
			key := strings.TrimSpace(parts[0])
			if key == "" {
				continue
			}
			ts.Params = append(ts.Params, Param{Key: key})
		case 2:
			ts.Params = append(ts.Params, Param{
				Key:      strings.TrimSpace(parts[0]),
				Value:    Unquote(strings.TrimSpace(parts[1])),
				HasValue: true,
			})
		default:
			return nil, &MalformedSpecError{Input: input, Reason: "invalid key-value pair " + strings.TrimSpace(item)}
		}
	}
	return ts, nil
}

// TypeName returns the text before "(" or the whole trimmed input when there
// is none. It never fails and is meant for degraded reporting.
func TypeName(input string) string {
	if i := strings.Index(input, "("); i >= 0 {
		return strings.TrimSpace(input[:i])
	}
	return strings.TrimSpace(input)
}

// Get returns the value of a named key=value parameter.
func (s *TypeSpec) Get(key string) (string, bool) {
	for _, p := range s.Params {
		if p.HasValue && p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Bare returns the valueless parameters in encounter order.
func (s *TypeSpec) Bare() []string {
	var out []string
	for _, p := range s.Params {
		if !p.HasValue {
			out = append(out, p.Key)
		}
	}
	return out
}

// Bounds resolves min and max. Named min=/max= parameters win; otherwise
// the first and second bare parameters are taken as min and max. Bare
// parameters are positional even for types where they mean something else,
// so option('a', 'b') reports min='a', max='b'.
func (s *TypeSpec) Bounds() (lo, hi string) {
	bare := s.Bare()
	if len(bare) > 0 {
		lo = bare[0]
	}
	if len(bare) > 1 {
		hi = bare[1]
	}
	if v, ok := s.Get("min"); ok {
		lo = v
	}
	if v, ok := s.Get("max"); ok {
		hi = v
	}
	return lo, hi
}

// Default returns the default= parameter.
func (s *TypeSpec) Default() (string, bool) {
	return s.Get("default")
}

// Unquote strips one layer of matching single or double quotes.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

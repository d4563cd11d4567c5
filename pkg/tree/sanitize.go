package tree

import (
	"math"
	"strconv"
	"strings"
)

// Sanitize converts a scalar or a sequence into display text.
//
// Strings have backslash escapes decoded and every layer of matching single
// or double quotes removed. Numbers and booleans are stringified (booleans
// as True/False). Sequences are sanitized element by element and joined with
// ", ". Any other kind, including trees, fails with *UnsupportedTypeError.
func Sanitize(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return sanitizeString(val), nil
	case bool:
		if val {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return formatFloat(val), nil
	case float32:
		return formatFloat(float64(val)), nil
	case []string:
		return strings.Join(mapStrings(val), ", "), nil
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			s, err := Sanitize(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", &UnsupportedTypeError{Value: v}
	}
}

// SanitizeValue is Sanitize extended to trees: a tree is returned as a new
// tree with every value sanitized and keys untouched.
func SanitizeValue(v any) (any, error) {
	t, ok := v.(*Tree)
	if !ok {
		return Sanitize(v)
	}
	out := New()
	for _, key := range t.Keys() {
		child, _ := t.Get(key)
		s, err := SanitizeValue(child)
		if err != nil {
			return nil, err
		}
		out.Set(key, s)
	}
	return out, nil
}

func mapStrings(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = sanitizeString(item)
	}
	return out
}

func sanitizeString(s string) string {
	s = decodeEscapes(s)
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first != last || (first != '"' && first != '\'') {
			break
		}
		s = s[1 : len(s)-1]
	}
	return s
}

// decodeEscapes decodes backslash escapes (\n, \t, \\, \xHH, \uHHHH, ...).
// Sequences that are not valid escapes are kept as written.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		if s[0] != '\\' || len(s) == 1 {
			b.WriteByte(s[0])
			s = s[1:]
			continue
		}
		var quote byte
		if s[1] == '\'' || s[1] == '"' {
			quote = s[1]
		}
		r, _, tail, err := strconv.UnquoteChar(s, quote)
		if err != nil {
			b.WriteByte(s[0])
			s = s[1:]
			continue
		}
		b.WriteRune(r)
		s = tail
	}
	return b.String()
}

// formatFloat renders integral floats with a trailing ".0" so that 3.0 and
// 3 stay distinguishable in tables.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// SanitizeString is Sanitize for text, which cannot fail.
func SanitizeString(s string) string {
	return sanitizeString(s)
}

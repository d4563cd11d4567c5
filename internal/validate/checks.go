package validate

import (
	"fmt"
	"math"
	"net/netip"
	"strconv"
	"strings"

	"github.com/leapstack-labs/confreport/pkg/spec"
	"github.com/leapstack-labs/confreport/pkg/tree"
)

// Check converts value to the checked type or fails with *CheckError.
// Parameters come from the parsed type string.
type Check func(value any, ts *spec.TypeSpec) (any, error)

func defaultChecks() map[string]Check {
	return map[string]Check{
		"integer":     checkInteger,
		"float":       checkFloat,
		"boolean":     checkBoolean,
		"string":      checkString,
		"list":        checkList(nil),
		"int_list":    checkList(checkInteger),
		"float_list":  checkList(checkFloat),
		"string_list": checkList(checkString),
		"bool_list":   checkList(checkBoolean),
		"option":      checkOption,
		"ip_addr":     checkIPAddr,
		"pass":        func(v any, _ *spec.TypeSpec) (any, error) { return v, nil },
	}
}

func checkInteger(value any, ts *spec.TypeSpec) (any, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxInt64 {
			return nil, checkErr(ReasonTooBig, value)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, checkErr(ReasonWrongType, value)
		}
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, checkErr(ReasonWrongType, value)
		}
		n = parsed
	default:
		return nil, checkErr(ReasonWrongType, value)
	}

	lo, hi, err := intBounds(ts)
	if err != nil {
		return nil, err
	}
	if lo != nil && n < *lo {
		return nil, checkErr(ReasonTooSmall, value)
	}
	if hi != nil && n > *hi {
		return nil, checkErr(ReasonTooBig, value)
	}
	return int(n), nil
}

func checkFloat(value any, ts *spec.TypeSpec) (any, error) {
	var f float64
	switch v := value.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, checkErr(ReasonWrongType, value)
		}
		f = parsed
	default:
		return nil, checkErr(ReasonWrongType, value)
	}

	lo, hi := ts.Bounds()
	if lo != "" {
		bound, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return nil, &CheckError{Reason: ReasonBadParam, Value: lo, Param: "min"}
		}
		if f < bound {
			return nil, checkErr(ReasonTooSmall, value)
		}
	}
	if hi != "" {
		bound, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return nil, &CheckError{Reason: ReasonBadParam, Value: hi, Param: "max"}
		}
		if f > bound {
			return nil, checkErr(ReasonTooBig, value)
		}
	}
	return f, nil
}

func checkBoolean(value any, _ *spec.TypeSpec) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "yes", "1":
			return true, nil
		case "false", "off", "no", "0":
			return false, nil
		}
	}
	return nil, checkErr(ReasonWrongType, value)
}

func checkString(value any, ts *spec.TypeSpec) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, checkErr(ReasonWrongType, value)
	}
	if err := checkLength(len([]rune(s)), value, ts); err != nil {
		return nil, err
	}
	return s, nil
}

// checkList returns a list check whose members are converted with member,
// or kept as they are when member is nil. Bounds limit the length.
func checkList(member Check) Check {
	return func(value any, ts *spec.TypeSpec) (any, error) {
		items, ok := value.([]any)
		if !ok {
			if strs, isStrs := value.([]string); isStrs {
				items = make([]any, len(strs))
				for i, s := range strs {
					items[i] = s
				}
			} else {
				return nil, checkErr(ReasonWrongType, value)
			}
		}
		if err := checkLength(len(items), value, ts); err != nil {
			return nil, err
		}

		out := make([]any, len(items))
		for i, item := range items {
			if member == nil {
				out[i] = item
				continue
			}
			v, err := member(item, &spec.TypeSpec{})
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
}

func checkOption(value any, ts *spec.TypeSpec) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, checkErr(ReasonWrongType, value)
	}
	for _, opt := range ts.Bare() {
		if spec.Unquote(opt) == s {
			return s, nil
		}
	}
	return nil, checkErr(ReasonUnacceptable, value)
}

func checkIPAddr(value any, _ *spec.TypeSpec) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, checkErr(ReasonWrongType, value)
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !addr.Is4() {
		return nil, checkErr(ReasonUnacceptable, value)
	}
	return s, nil
}

func intBounds(ts *spec.TypeSpec) (lo, hi *int64, err error) {
	rawLo, rawHi := ts.Bounds()
	if rawLo != "" {
		n, perr := strconv.ParseInt(rawLo, 10, 64)
		if perr != nil {
			return nil, nil, &CheckError{Reason: ReasonBadParam, Value: rawLo, Param: "min"}
		}
		lo = &n
	}
	if rawHi != "" {
		n, perr := strconv.ParseInt(rawHi, 10, 64)
		if perr != nil {
			return nil, nil, &CheckError{Reason: ReasonBadParam, Value: rawHi, Param: "max"}
		}
		hi = &n
	}
	return lo, hi, nil
}

// checkLength applies min/max to a string or list length.
func checkLength(n int, value any, ts *spec.TypeSpec) error {
	lo, hi, err := intBounds(ts)
	if err != nil {
		return err
	}
	if lo != nil && int64(n) < *lo {
		return checkErr(ReasonTooShort, value)
	}
	if hi != nil && int64(n) > *hi {
		return checkErr(ReasonTooLong, value)
	}
	return nil
}

// display renders a value the way it appears in check messages.
func display(v any) string {
	if s, err := tree.Sanitize(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

package spec

import "fmt"

// MalformedSpecError is returned when a type string does not have the
// shape typename(params).
type MalformedSpecError struct {
	Input  string
	Reason string
}

func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("malformed specification %q: %s", e.Input, e.Reason)
}

// UnknownDirectiveError is returned for a delimiter-bearing key whose
// directive name is not one of the known kinds, or that names a section
// directive on a single entry.
type UnknownDirectiveError struct {
	Name       string
	Key        string
	EntryLevel bool
}

func (e *UnknownDirectiveError) Error() string {
	if e.EntryLevel {
		return fmt.Sprintf("directive %q in key %q cannot annotate a single entry", e.Name, e.Key)
	}
	if e.Key != "" {
		return fmt.Sprintf("unknown directive %q in key %q", e.Name, e.Key)
	}
	return fmt.Sprintf("unknown directive %q", e.Name)
}

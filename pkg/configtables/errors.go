package configtables

import (
	"fmt"
	"strings"
)

// SpecConfigMismatchError reports a specification entry with no matching
// value in the configuration. The configuration is expected to be validated
// and default-filled, so this points at drift between the two.
type SpecConfigMismatchError struct {
	Path string
	Err  error
}

func (e *SpecConfigMismatchError) Error() string {
	return fmt.Sprintf("path %s was not found in config; is there a typo in the specification? (%v)", e.Path, e.Err)
}

func (e *SpecConfigMismatchError) Unwrap() error { return e.Err }

// InvalidSectionTypeError reports an unrecognized __type value.
type InvalidSectionTypeError struct {
	Path string
	Type string
}

func (e *InvalidSectionTypeError) Error() string {
	return fmt.Sprintf("section %q: type %q is not valid (want one of %s)",
		e.Path, e.Type, strings.Join(sectionTypes, ", "))
}

// ParentNotFoundError reports a __parent that names no built section.
type ParentNotFoundError struct {
	Path   string
	Parent string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("section %q: parent section %q not found", e.Path, e.Parent)
}

// ParentCycleError reports sections whose __parent directives form a cycle.
type ParentCycleError struct {
	Paths []string
}

func (e *ParentCycleError) Error() string {
	return fmt.Sprintf("__parent directives form a cycle between sections %s", strings.Join(e.Paths, ", "))
}

// InvalidDirectiveValueError reports a directive whose value cannot be used,
// such as a non-numeric __wrap.
type InvalidDirectiveValueError struct {
	Path      string
	Directive string
	Value     string
}

func (e *InvalidDirectiveValueError) Error() string {
	return fmt.Sprintf("section %q: invalid %s value %q", e.Path, e.Directive, e.Value)
}

// InvalidTableTypeError is returned by renderers for an unknown table style
// or for row data they cannot draw.
type InvalidTableTypeError struct {
	Style  string
	Reason string
}

func (e *InvalidTableTypeError) Error() string {
	if e.Style != "" {
		return fmt.Sprintf("invalid table type %q: %s", e.Style, e.Reason)
	}
	return "invalid table type: " + e.Reason
}

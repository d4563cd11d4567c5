package errortree

import (
	"encoding/json"
	"fmt"
)

// Outcome classifies a leaf of the validation result.
type Outcome int

// Outcomes.
const (
	OutcomePass Outcome = iota
	OutcomeMissing
	OutcomeFailure
)

var outcomeNames = [...]string{"pass", "missing", "failure"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Messages attached to non-failure outcomes.
const (
	PassMessage    = "Valid"
	MissingMessage = "Missing value or section."
)

// Record is one flattened leaf of a validation result together with what
// its specification says about it.
type Record struct {
	Path    []string
	Outcome Outcome
	Message string

	// Spec is the raw specification string for Path.
	Spec    string
	Type    string
	Default string
	Min     string
	Max     string

	// Value is the sanitized configuration value at Path, if there is one.
	Value *string
	// EnrichErr is set when the specification for Path could not be found
	// or parsed. Type and constraints are then empty.
	EnrichErr error
}

// Format describes the expected type and constraints of r, for example
// "Expected integer (min=1, max=10): Default: 5".
func Format(r Record) string {
	if r.EnrichErr != nil {
		return "Specification unavailable: " + r.EnrichErr.Error()
	}
	s := "Expected " + r.Type
	switch {
	case r.Min != "" && r.Max != "":
		s += fmt.Sprintf(" (min=%s, max=%s)", r.Min, r.Max)
	case r.Min != "":
		s += fmt.Sprintf(" (min=%s)", r.Min)
	case r.Max != "":
		s += fmt.Sprintf(" (max=%s)", r.Max)
	}
	if r.Default != "" {
		s += ": Default: " + r.Default
	}
	return s
}

type recordJSON struct {
	Path     []string `json:"path"`
	Outcome  Outcome  `json:"outcome"`
	Message  string   `json:"message"`
	Spec     string   `json:"spec,omitempty"`
	Type     string   `json:"type,omitempty"`
	Default  string   `json:"default,omitempty"`
	Min      string   `json:"min,omitempty"`
	Max      string   `json:"max,omitempty"`
	Value    *string  `json:"value,omitempty"`
	Expected string   `json:"expected"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Path:     r.Path,
		Outcome:  r.Outcome,
		Message:  r.Message,
		Spec:     r.Spec,
		Type:     r.Type,
		Default:  r.Default,
		Min:      r.Min,
		Max:      r.Max,
		Value:    r.Value,
		Expected: Format(r),
	})
}

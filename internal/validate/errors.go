package validate

import "fmt"

// Reason is the kind of a failed check.
type Reason int

// Check failure reasons.
const (
	ReasonWrongType Reason = iota
	ReasonTooSmall
	ReasonTooBig
	ReasonTooShort
	ReasonTooLong
	ReasonUnacceptable
	ReasonUnknownCheck
	ReasonBadParam
)

// CheckError is a failed check for a single value. Its message follows the
// wording users of configobj-style validators know, such as
// `the value "3" is too small.`.
type CheckError struct {
	Reason Reason
	Value  string
	// Param names the offending parameter for ReasonBadParam.
	Param string
}

func (e *CheckError) Error() string {
	switch e.Reason {
	case ReasonWrongType:
		return fmt.Sprintf("the value %q is of the wrong type.", e.Value)
	case ReasonTooSmall:
		return fmt.Sprintf("the value %q is too small.", e.Value)
	case ReasonTooBig:
		return fmt.Sprintf("the value %q is too big.", e.Value)
	case ReasonTooShort:
		return fmt.Sprintf("the value %q is too short.", e.Value)
	case ReasonTooLong:
		return fmt.Sprintf("the value %q is too long.", e.Value)
	case ReasonUnknownCheck:
		return fmt.Sprintf("the check %q is unknown.", e.Value)
	case ReasonBadParam:
		return fmt.Sprintf("passed an incorrect value %q for parameter %q.", e.Value, e.Param)
	default:
		return fmt.Sprintf("the value %q is unacceptable.", e.Value)
	}
}

func checkErr(reason Reason, value any) *CheckError {
	return &CheckError{Reason: reason, Value: display(value)}
}

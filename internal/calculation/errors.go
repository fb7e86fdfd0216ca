package calculation

import "fmt"

// ValidationError reports malformed or out-of-range caller input. It is
// raised before any replay state is built; the engine never returns a
// partial result alongside one.
type ValidationError struct {
	// EventIndex is the position of the offending event in the caller's
	// list, or -1 when the problem is not tied to a single event.
	EventIndex int
	Msg        string
}

func (e *ValidationError) Error() string {
	if e.EventIndex >= 0 {
		return fmt.Sprintf("invalid input: event %d: %s", e.EventIndex, e.Msg)
	}
	return "invalid input: " + e.Msg
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{EventIndex: -1, Msg: fmt.Sprintf(format, args...)}
}

func eventErrorf(index int, format string, args ...interface{}) error {
	return &ValidationError{EventIndex: index, Msg: fmt.Sprintf(format, args...)}
}

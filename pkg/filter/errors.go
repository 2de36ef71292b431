package filter

import "fmt"

// ParseError reports a malformed column search or filter specification.
type ParseError struct {
	Spec   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid filter %q: %s", e.Spec, e.Reason)
}

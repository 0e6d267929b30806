package scenario

import "fmt"

// ValidationError reports a document that does not match the scenario
// schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scenario document: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

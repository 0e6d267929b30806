package dsl

import (
	"errors"
	"fmt"
)

// ErrInvalidElement is matched by every CompileError.
var ErrInvalidElement = errors.New("invalid element")

// CompileError reports an element that cannot be compiled.
type CompileError struct {
	Path    string
	Element string
	Reason  string
}

func (e *CompileError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("compile %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("compile %s (%s): %s", e.Path, e.Element, e.Reason)
}

func (e *CompileError) Is(target error) bool {
	return target == ErrInvalidElement
}

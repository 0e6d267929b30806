package component

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructural matches every StructuralError.
	ErrStructural = errors.New("structural error")
	// ErrCircularDependency matches every CycleError.
	ErrCircularDependency = errors.New("circular dependency")
	// ErrFrozen is returned when attaching to a tree that finished building.
	ErrFrozen = errors.New("component tree is frozen")
)

// StructuralError rejects a whole document: a node that is not an object, a
// missing type, or a field of the wrong shape.
type StructuralError struct {
	Path   string
	ID     string
	Type   string
	Reason string
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	b.WriteString("invalid component")
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.ID != "" || e.Type != "" {
		fmt.Fprintf(&b, " (id=%q, type=%q)", e.ID, e.Type)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// Is lets errors.Is match ErrStructural.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// CycleError is returned by AddChild when the child's subtree contains a node
// with the parent's id. Path lists the ids from the child down to the
// offending node.
type CycleError struct {
	ParentID string
	ChildID  string
	Path     []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency: component %q cannot be attached to %q (path %s)",
		e.ChildID, e.ParentID, strings.Join(e.Path, " -> "))
}

// Is lets errors.Is match ErrCircularDependency.
func (e *CycleError) Is(target error) bool {
	return target == ErrCircularDependency
}

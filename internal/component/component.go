package component

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/style"
	"github.com/zclconf/go-cty/cty"
)

// Component is a single node of the UI tree.
type Component struct {
	id         string
	typ        string
	style      style.Style
	properties config.Config
	data       config.Config
	children   []*Component

	parent *Component
	frozen bool
}

// New creates a detached component. An empty id is replaced with a freshly
// generated one; an empty type is a structural error.
func New(id, typ string, st style.Style, properties, data config.Config) (*Component, error) {
	if typ == "" {
		return nil, &StructuralError{ID: id, Reason: "missing type"}
	}
	if id == "" {
		id = uuid.NewString()
	}
	return &Component{
		id:         id,
		typ:        typ,
		style:      st,
		properties: properties,
		data:       data,
	}, nil
}

// ID is the component's identity.
func (c *Component) ID() string { return c.id }

// Type is the tag renderers are registered under.
func (c *Component) Type() string { return c.typ }

// Style returns the declared style.
func (c *Component) Style() style.Style { return c.style }

// Properties returns the declared bindings.
func (c *Component) Properties() config.Config { return c.properties }

// Data returns the static payload.
func (c *Component) Data() config.Config { return c.data }

// Children returns the children in declaration order. The slice is a copy.
func (c *Component) Children() []*Component {
	out := make([]*Component, len(c.children))
	copy(out, c.children)
	return out
}

// NumChildren returns the number of direct children.
func (c *Component) NumChildren() int { return len(c.children) }

// Child returns the i-th child.
func (c *Component) Child(i int) *Component { return c.children[i] }

// Parent returns the owning component, or nil for a root.
func (c *Component) Parent() *Component { return c.parent }

// AddChild appends child after verifying that the edge cannot introduce a
// cycle: no node in child's subtree may carry c's id. The check runs before
// the child is attached.
func (c *Component) AddChild(child *Component) error {
	if child == nil {
		return &StructuralError{ID: c.id, Type: c.typ, Reason: "child is nil"}
	}
	if c.frozen {
		return fmt.Errorf("add %q to %q: %w", child.id, c.id, ErrFrozen)
	}
	if child.parent != nil {
		return &StructuralError{
			ID:     child.id,
			Type:   child.typ,
			Reason: fmt.Sprintf("component already belongs to %q", child.parent.id),
		}
	}
	if path, found := child.findID(c.id, c); found {
		return &CycleError{ParentID: c.id, ChildID: child.id, Path: path}
	}
	child.parent = c
	c.children = append(c.children, child)
	return nil
}

// findID searches the subtree rooted at c for a node with the given id (or
// the given pointer) and returns the id path leading to it.
func (c *Component) findID(id string, target *Component) ([]string, bool) {
	if c.id == id || c == target {
		return []string{c.id}, true
	}
	for _, ch := range c.children {
		if path, ok := ch.findID(id, target); ok {
			return append([]string{c.id}, path...), true
		}
	}
	return nil, false
}

// Freeze marks the subtree as immutable; further AddChild calls fail.
func (c *Component) Freeze() {
	c.Walk(func(n *Component, _ int) bool {
		n.frozen = true
		return true
	})
}

// Walk visits the subtree in pre-order, declaration order. Returning false
// from fn skips the node's children.
func (c *Component) Walk(fn func(n *Component, depth int) bool) {
	c.walk(fn, 0)
}

func (c *Component) walk(fn func(*Component, int) bool, depth int) {
	if !fn(c, depth) {
		return
	}
	for _, ch := range c.children {
		ch.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree, including c.
func (c *Component) Count() int {
	n := 0
	c.Walk(func(*Component, int) bool {
		n++
		return true
	})
	return n
}

// Find returns the first node in the subtree with the given id.
func (c *Component) Find(id string) (*Component, bool) {
	var found *Component
	c.Walk(func(n *Component, _ int) bool {
		if found != nil {
			return false
		}
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Value encodes the subtree back into its wire form.
func (c *Component) Value() cty.Value {
	attrs := map[string]cty.Value{
		"id":   cty.StringVal(c.id),
		"type": cty.StringVal(c.typ),
	}
	if c.style.Len() > 0 {
		attrs["style"] = c.style.Value()
	}
	if c.properties.Len() > 0 {
		attrs["properties"] = c.properties.Value()
	}
	if c.data.Len() > 0 {
		attrs["data"] = c.data.Value()
	}
	if len(c.children) > 0 {
		children := make([]cty.Value, 0, len(c.children))
		for _, ch := range c.children {
			children = append(children, ch.Value())
		}
		attrs["children"] = cty.TupleVal(children)
	}
	return cty.ObjectVal(attrs)
}

// MarshalJSON implements json.Marshaler.
func (c *Component) MarshalJSON() ([]byte, error) {
	return config.EncodeJSON(c.Value())
}

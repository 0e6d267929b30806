package component

import (
	"context"
	"fmt"

	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/style"
	"github.com/zclconf/go-cty/cty"
)

// Field names of a component node on the wire.
const (
	FieldID         = "id"
	FieldType       = "type"
	FieldStyle      = "style"
	FieldProperties = "properties"
	FieldData       = "data"
	FieldChildren   = "children"
)

// RootPath is the path reported for the root node in errors.
const RootPath = "$"

// BuildJSON decodes a JSON document and builds the tree rooted at it.
func BuildJSON(ctx context.Context, data []byte) (*Component, error) {
	v, err := config.DecodeJSON(data)
	if err != nil {
		return nil, &StructuralError{Path: RootPath, Reason: err.Error()}
	}
	return Build(ctx, v)
}

// Build constructs a frozen component tree from a decoded node. The whole
// document is rejected on the first structural or cycle error; no partial
// tree is returned.
func Build(ctx context.Context, v cty.Value) (*Component, error) {
	return BuildAt(ctx, v, RootPath)
}

// BuildAt is Build with a caller-chosen path prefix for error messages.
func BuildAt(ctx context.Context, v cty.Value, path string) (*Component, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building component tree.", "path", path)

	root, err := build(v, path)
	if err != nil {
		logger.Debug("Component tree rejected.", "path", path, "error", err)
		return nil, err
	}
	root.Freeze()

	logger.Debug("Component tree built.", "path", path, "root_id", root.id, "node_count", root.Count())
	return root, nil
}

func build(v cty.Value, path string) (*Component, error) {
	node, err := config.New(v)
	if err != nil {
		return nil, &StructuralError{Path: path, Reason: "component must be an object"}
	}

	id := ""
	if node.Has(FieldID) {
		s, ok := node.GetString(FieldID)
		if !ok {
			return nil, &StructuralError{Path: path, Reason: "id must be a string"}
		}
		id = s
	}

	typ, ok := node.GetString(FieldType)
	if !ok || typ == "" {
		return nil, &StructuralError{Path: path, ID: id, Reason: "missing type"}
	}

	st, err := optionalObject(node, FieldStyle)
	if err != nil {
		return nil, &StructuralError{Path: path, ID: id, Type: typ, Reason: err.Error()}
	}
	props, err := optionalObject(node, FieldProperties)
	if err != nil {
		return nil, &StructuralError{Path: path, ID: id, Type: typ, Reason: err.Error()}
	}
	data, err := optionalObject(node, FieldData)
	if err != nil {
		return nil, &StructuralError{Path: path, ID: id, Type: typ, Reason: err.Error()}
	}

	c, err := New(id, typ, style.New(st), props, data)
	if err != nil {
		return nil, err
	}

	children, ok := node.Lookup(FieldChildren)
	if !ok {
		return c, nil
	}
	kind := children.Type()
	if !kind.IsTupleType() && !kind.IsListType() {
		return nil, &StructuralError{Path: path, ID: c.id, Type: typ, Reason: "children must be an array"}
	}
	for i, childVal := range children.AsValueSlice() {
		childPath := fmt.Sprintf("%s.%s[%d]", path, FieldChildren, i)
		child, err := build(childVal, childPath)
		if err != nil {
			return nil, err
		}
		if err := c.AddChild(child); err != nil {
			return nil, fmt.Errorf("at %s: %w", childPath, err)
		}
	}
	return c, nil
}

func optionalObject(node config.Config, field string) (config.Config, error) {
	if !node.Has(field) {
		return config.Empty(), nil
	}
	sub, ok := node.GetConfig(field)
	if !ok {
		return config.Config{}, fmt.Errorf("%s must be an object", field)
	}
	return sub, nil
}

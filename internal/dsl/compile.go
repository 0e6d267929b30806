package dsl

import (
	"fmt"
	"sort"

	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/platform"
	"github.com/vk/sduigo/internal/resolve"
	"github.com/vk/sduigo/internal/style"
	"github.com/zclconf/go-cty/cty"
)

var layoutOnlyKeys = []string{style.KeyDirection, style.KeyJustifyContent, style.KeyAlignItems}

var dimensionKeys = map[string]bool{
	style.KeyWidth: true, style.KeyHeight: true,
	style.KeyMinWidth: true, style.KeyMinHeight: true,
	style.KeyMaxWidth: true, style.KeyMaxHeight: true,
	style.KeyPadding: true, style.KeyPaddingHorizontal: true, style.KeyPaddingVertical: true,
	style.KeyPaddingTop: true, style.KeyPaddingRight: true, style.KeyPaddingBottom: true, style.KeyPaddingLeft: true,
	style.KeyMargin: true, style.KeyMarginHorizontal: true, style.KeyMarginVertical: true,
	style.KeyMarginTop: true, style.KeyMarginRight: true, style.KeyMarginBottom: true, style.KeyMarginLeft: true,
	style.KeyTop: true, style.KeyRight: true, style.KeyBottom: true, style.KeyLeft: true,
}

var numberKeys = map[string]bool{
	style.KeyCornerRadius: true, style.KeyBorderWidth: true, style.KeyOpacity: true, style.KeyFlex: true,
}

var colorKeys = map[string]bool{
	style.KeyBackgroundColor: true, style.KeyBorderColor: true,
}

// Compile transpiles an element tree into a component node accepted by
// component.Build.
func Compile(e *Element) (cty.Value, error) {
	return compile(e, component.RootPath, false)
}

func compile(e *Element, path string, absolute bool) (cty.Value, error) {
	if e == nil {
		return cty.NilVal, &CompileError{Path: path, Reason: "nil element"}
	}
	fail := func(format string, args ...any) (cty.Value, error) {
		return cty.NilVal, &CompileError{Path: path, Element: e.label(), Reason: fmt.Sprintf(format, args...)}
	}

	typ := platform.TypeView
	if e.Kind == KindLeaf {
		if e.Type == "" {
			return fail("leaf without a component type")
		}
		typ = e.Type
	}

	st := make(map[string]cty.Value, len(e.Style)+2)
	for _, k := range sortedKeys(e.Style) {
		v := e.Style[k]
		if err := checkStyle(k, v); err != nil {
			return fail("%s", err)
		}
		st[k] = v
	}

	switch e.Kind {
	case KindLeaf:
		for _, k := range layoutOnlyKeys {
			if _, ok := st[k]; ok {
				return fail("%s is only valid on row, column and stack", k)
			}
		}
		if len(e.Children) > 0 {
			return fail("leaf components cannot have children")
		}
	case KindRow, KindColumn:
		if _, ok := st[style.KeyDirection]; ok {
			return fail("direction is implied by %s", e.Kind)
		}
		dir := style.DirectionRow
		if e.Kind == KindColumn {
			dir = style.DirectionColumn
		}
		st[style.KeyDirection] = cty.StringVal(string(dir))
	case KindStack:
		st[style.KeyPosition] = cty.StringVal(string(style.PositionRelative))
	}
	if absolute {
		st[style.KeyPosition] = cty.StringVal(string(style.PositionAbsolute))
	}

	attrs := map[string]cty.Value{component.FieldType: cty.StringVal(typ)}
	if e.ID != "" {
		attrs[component.FieldID] = cty.StringVal(e.ID)
	}
	if len(st) > 0 {
		attrs[component.FieldStyle] = cty.ObjectVal(st)
	}
	for _, f := range []struct {
		name string
		m    map[string]cty.Value
	}{
		{component.FieldProperties, e.Properties},
		{component.FieldData, e.Data},
	} {
		obj, err := object(f.m)
		if err != nil {
			return fail("%s: %s", f.name, err)
		}
		if obj != cty.NilVal {
			attrs[f.name] = obj
		}
	}
	if len(e.Children) > 0 {
		children := make([]cty.Value, 0, len(e.Children))
		for i, child := range e.Children {
			cv, err := compile(child, fmt.Sprintf("%s.%s[%d]", path, component.FieldChildren, i), e.Kind == KindStack)
			if err != nil {
				return cty.NilVal, err
			}
			children = append(children, cv)
		}
		attrs[component.FieldChildren] = cty.TupleVal(children)
	}
	return cty.ObjectVal(attrs), nil
}

func checkStyle(key string, v cty.Value) error {
	if !style.IsKnownKey(key) {
		return fmt.Errorf("unknown style key %q", key)
	}
	if v == cty.NilVal || !v.IsWhollyKnown() || v.IsNull() {
		return fmt.Errorf("style %s has no value", key)
	}
	if resolve.IsBinding(v) {
		return nil
	}
	ty := v.Type()
	switch {
	case dimensionKeys[key]:
		if _, ok := style.DimensionFromValue(v); !ok {
			return fmt.Errorf("style %s must be a number or a percentage", key)
		}
	case numberKeys[key]:
		if !ty.Equals(cty.Number) {
			return fmt.Errorf("style %s must be a number", key)
		}
	case colorKeys[key]:
		if !ty.Equals(cty.String) {
			return fmt.Errorf("style %s must be a string", key)
		}
	default:
		if !ty.Equals(cty.String) {
			return fmt.Errorf("style %s must be a string", key)
		}
		if !validEnum(key, v.AsString()) {
			return fmt.Errorf("invalid %s value %q", key, v.AsString())
		}
	}
	return nil
}

// object drops unset entries. It returns cty.NilVal when nothing is left.
func object(m map[string]cty.Value) (cty.Value, error) {
	out := make(map[string]cty.Value, len(m))
	for _, k := range sortedKeys(m) {
		v := m[k]
		if v == cty.NilVal {
			continue
		}
		if !v.IsWhollyKnown() {
			return cty.NilVal, fmt.Errorf("%s is not known", k)
		}
		out[k] = v
	}
	if len(out) == 0 {
		return cty.NilVal, nil
	}
	return cty.ObjectVal(out), nil
}

func validEnum(key, s string) bool {
	var ok bool
	switch key {
	case style.KeyDirection:
		_, ok = style.ParseDirection(s)
	case style.KeyJustifyContent:
		_, ok = style.ParseJustify(s)
	case style.KeyAlignItems:
		_, ok = style.ParseAlign(s)
	case style.KeyPosition:
		_, ok = style.ParsePosition(s)
	}
	return ok
}

func sortedKeys(m map[string]cty.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

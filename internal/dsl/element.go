package dsl

import (
	"github.com/vk/sduigo/internal/platform"
	"github.com/vk/sduigo/internal/style"
	"github.com/zclconf/go-cty/cty"
)

// Kind selects how an Element compiles.
type Kind int

const (
	KindLeaf Kind = iota
	KindRow
	KindColumn
	KindStack
)

func (k Kind) String() string {
	switch k {
	case KindRow:
		return "row"
	case KindColumn:
		return "column"
	case KindStack:
		return "stack"
	default:
		return "leaf"
	}
}

// IsLayout reports a layout primitive.
func (k Kind) IsLayout() bool { return k != KindLeaf }

// Element is the generic authoring node. The typed constructors build it;
// front-ends such as the HCL loader fill it directly.
type Element struct {
	Kind Kind
	// Type is the component type of a leaf. Layout primitives always
	// compile to "view".
	Type       string
	ID         string
	Style      map[string]cty.Value
	Properties map[string]cty.Value
	Data       map[string]cty.Value
	Children   []*Element
}

func (e *Element) label() string {
	if e.Kind == KindLeaf {
		return e.Type
	}
	return e.Kind.String()
}

func layout(kind Kind, flex FlexProps, vp ViewProps, children []*Element) *Element {
	st := vp.style()
	if flex.JustifyContent != "" {
		st[style.KeyJustifyContent] = cty.StringVal(string(flex.JustifyContent))
	}
	if flex.AlignItems != "" {
		st[style.KeyAlignItems] = cty.StringVal(string(flex.AlignItems))
	}
	return &Element{Kind: kind, ID: vp.ID, Style: st, Children: children}
}

// Row lays children out horizontally.
func Row(flex FlexProps, vp ViewProps, children ...*Element) *Element {
	return layout(KindRow, flex, vp, children)
}

// Column lays children out vertically.
func Column(flex FlexProps, vp ViewProps, children ...*Element) *Element {
	return layout(KindColumn, flex, vp, children)
}

// Stack layers children on top of each other.
func Stack(vp ViewProps, children ...*Element) *Element {
	return layout(KindStack, FlexProps{}, vp, children)
}

// Leaf is a component of any type. properties and data may be nil.
func Leaf(typ string, vp ViewProps, properties, data map[string]cty.Value) *Element {
	return &Element{Kind: KindLeaf, Type: typ, ID: vp.ID, Style: vp.style(), Properties: properties, Data: data}
}

// Text displays text, a literal or a Prop binding.
func Text(text cty.Value, vp ViewProps) *Element {
	return Leaf(platform.TypeText, vp, map[string]cty.Value{platform.PropText: text}, nil)
}

// Button is a tappable control. data usually carries the action payload.
func Button(title cty.Value, vp ViewProps, data map[string]cty.Value) *Element {
	return Leaf(platform.TypeButton, vp, map[string]cty.Value{platform.PropTitle: title}, data)
}

// Image displays the image at url.
func Image(url cty.Value, vp ViewProps) *Element {
	return Leaf(platform.TypeImage, vp, map[string]cty.Value{platform.PropURL: url}, nil)
}

// Input is a single-line text field.
func Input(placeholder cty.Value, vp ViewProps) *Element {
	return Leaf(platform.TypeInput, vp, map[string]cty.Value{platform.PropPlaceholder: placeholder}, nil)
}

package dsl

import (
	"math/big"
	"strconv"

	"github.com/vk/sduigo/internal/resolve"
	"github.com/vk/sduigo/internal/style"
	"github.com/zclconf/go-cty/cty"
)

// ViewProps are the visual properties shared by every element. Unset fields
// are cty.NilVal and are not emitted. Any field may hold a Prop binding.
type ViewProps struct {
	ID string

	Width, Height       cty.Value
	MinWidth, MinHeight cty.Value
	MaxWidth, MaxHeight cty.Value

	Padding, PaddingHorizontal, PaddingVertical             cty.Value
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft    cty.Value
	Margin, MarginHorizontal, MarginVertical                cty.Value
	MarginTop, MarginRight, MarginBottom, MarginLeft        cty.Value
	BackgroundColor, CornerRadius, BorderWidth, BorderColor cty.Value
	Top, Right, Bottom, Left                                cty.Value
	Opacity, Flex                                           cty.Value
}

// FlexProps align the children of a Row or Column.
type FlexProps struct {
	JustifyContent style.Justify
	AlignItems     style.Align
}

func (p ViewProps) style() map[string]cty.Value {
	out := map[string]cty.Value{}
	for _, kv := range []struct {
		key string
		val cty.Value
	}{
		{style.KeyWidth, p.Width},
		{style.KeyHeight, p.Height},
		{style.KeyMinWidth, p.MinWidth},
		{style.KeyMinHeight, p.MinHeight},
		{style.KeyMaxWidth, p.MaxWidth},
		{style.KeyMaxHeight, p.MaxHeight},
		{style.KeyPadding, p.Padding},
		{style.KeyPaddingHorizontal, p.PaddingHorizontal},
		{style.KeyPaddingVertical, p.PaddingVertical},
		{style.KeyPaddingTop, p.PaddingTop},
		{style.KeyPaddingRight, p.PaddingRight},
		{style.KeyPaddingBottom, p.PaddingBottom},
		{style.KeyPaddingLeft, p.PaddingLeft},
		{style.KeyMargin, p.Margin},
		{style.KeyMarginHorizontal, p.MarginHorizontal},
		{style.KeyMarginVertical, p.MarginVertical},
		{style.KeyMarginTop, p.MarginTop},
		{style.KeyMarginRight, p.MarginRight},
		{style.KeyMarginBottom, p.MarginBottom},
		{style.KeyMarginLeft, p.MarginLeft},
		{style.KeyBackgroundColor, p.BackgroundColor},
		{style.KeyCornerRadius, p.CornerRadius},
		{style.KeyBorderWidth, p.BorderWidth},
		{style.KeyBorderColor, p.BorderColor},
		{style.KeyTop, p.Top},
		{style.KeyRight, p.Right},
		{style.KeyBottom, p.Bottom},
		{style.KeyLeft, p.Left},
		{style.KeyOpacity, p.Opacity},
		{style.KeyFlex, p.Flex},
	} {
		if kv.val != cty.NilVal {
			out[kv.key] = kv.val
		}
	}
	return out
}

// Px is a length in density-independent pixels.
func Px(v float64) cty.Value { return cty.NumberVal(big.NewFloat(v)) }

// Pct is a length relative to the parent.
func Pct(v float64) cty.Value {
	return cty.StringVal(strconv.FormatFloat(v, 'f', -1, 64) + "%")
}

// Str is a string literal.
func Str(s string) cty.Value { return cty.StringVal(s) }

// Num is a number literal.
func Num(v float64) cty.Value { return cty.NumberVal(big.NewFloat(v)) }

// Bool is a boolean literal.
func Bool(b bool) cty.Value { return cty.BoolVal(b) }

// Prop binds a value to the runtime prop named key.
func Prop(key string) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		style.BindingTypeKey:    cty.StringVal(resolve.BindingProp),
		resolve.BindingKeyField: cty.StringVal(key),
	})
}

// SelfProp binds a style entry to the prop of the same name.
func SelfProp() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		style.BindingTypeKey: cty.StringVal(resolve.BindingProp),
	})
}

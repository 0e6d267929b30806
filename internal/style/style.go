// Package style gives a typed view over a component's layout and visual
// properties.
//
// Numeric dimensions are density-independent pixels; a string ending in "%"
// is relative to the parent. Accessors read literal values only: an entry
// holding a binding object (for example {"type": "prop"}) is computed at
// render time by the resolution pipeline and reads as absent here.
package style

import (
	"github.com/vk/sduigo/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Style keys understood by renderers and emitted by the DSL compiler.
const (
	KeyWidth     = "width"
	KeyHeight    = "height"
	KeyMinWidth  = "minWidth"
	KeyMinHeight = "minHeight"
	KeyMaxWidth  = "maxWidth"
	KeyMaxHeight = "maxHeight"

	KeyPadding           = "padding"
	KeyPaddingHorizontal = "paddingHorizontal"
	KeyPaddingVertical   = "paddingVertical"
	KeyPaddingTop        = "paddingTop"
	KeyPaddingRight      = "paddingRight"
	KeyPaddingBottom     = "paddingBottom"
	KeyPaddingLeft       = "paddingLeft"

	KeyMargin           = "margin"
	KeyMarginHorizontal = "marginHorizontal"
	KeyMarginVertical   = "marginVertical"
	KeyMarginTop        = "marginTop"
	KeyMarginRight      = "marginRight"
	KeyMarginBottom     = "marginBottom"
	KeyMarginLeft       = "marginLeft"

	KeyBackgroundColor = "backgroundColor"
	KeyCornerRadius    = "cornerRadius"
	KeyBorderWidth     = "borderWidth"
	KeyBorderColor     = "borderColor"
	KeyOpacity         = "opacity"

	KeyPosition = "position"
	KeyTop      = "top"
	KeyRight    = "right"
	KeyBottom   = "bottom"
	KeyLeft     = "left"

	KeyDirection      = "direction"
	KeyJustifyContent = "justifyContent"
	KeyAlignItems     = "alignItems"
	KeyFlex           = "flex"
)

// Keys lists every known style key in a stable order.
var Keys = []string{
	KeyWidth, KeyHeight, KeyMinWidth, KeyMinHeight, KeyMaxWidth, KeyMaxHeight,
	KeyPadding, KeyPaddingHorizontal, KeyPaddingVertical, KeyPaddingTop, KeyPaddingRight, KeyPaddingBottom, KeyPaddingLeft,
	KeyMargin, KeyMarginHorizontal, KeyMarginVertical, KeyMarginTop, KeyMarginRight, KeyMarginBottom, KeyMarginLeft,
	KeyBackgroundColor, KeyCornerRadius, KeyBorderWidth, KeyBorderColor, KeyOpacity,
	KeyPosition, KeyTop, KeyRight, KeyBottom, KeyLeft,
	KeyDirection, KeyJustifyContent, KeyAlignItems, KeyFlex,
}

var knownKeys = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keys))
	for _, k := range Keys {
		m[k] = struct{}{}
	}
	return m
}()

// IsKnownKey reports whether key is a style key.
func IsKnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

// BindingTypeKey is the discriminator field of a computed entry.
const BindingTypeKey = "type"

// Style is a Config specialised for layout and visual properties.
type Style struct {
	config.Config
}

// New wraps a config as a Style.
func New(c config.Config) Style {
	return Style{Config: c}
}

// BindingType returns the discriminator of a computed entry under key, such
// as "prop". It is false for literal values.
func (s Style) BindingType(key string) (string, bool) {
	return BindingOf(s.Config, key)
}

// IsBinding reports whether key holds a computed entry rather than a literal.
func (s Style) IsBinding(key string) bool {
	_, ok := s.BindingType(key)
	return ok
}

// BindingOf returns the "type" discriminator of the object stored under key
// in any config.
func BindingOf(c config.Config, key string) (string, bool) {
	sub, ok := c.GetConfig(key)
	if !ok {
		return "", false
	}
	return sub.GetString(BindingTypeKey)
}

// IsBindingValue reports whether v is an object carrying a string "type"
// discriminator.
func IsBindingValue(v cty.Value) bool {
	c, err := config.New(v)
	if err != nil {
		return false
	}
	_, ok := c.GetString(BindingTypeKey)
	return ok
}

func (s Style) dimension(key string) (Dimension, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return Dimension{}, false
	}
	return DimensionFromValue(v)
}

func (s Style) number(key string) (float64, bool) {
	return s.GetNumber(key)
}

// Width is the preferred width.
func (s Style) Width() (Dimension, bool) { return s.dimension(KeyWidth) }

// Height is the preferred height.
func (s Style) Height() (Dimension, bool) { return s.dimension(KeyHeight) }

// MinWidth is the lower width bound.
func (s Style) MinWidth() (Dimension, bool) { return s.dimension(KeyMinWidth) }

// MinHeight is the lower height bound.
func (s Style) MinHeight() (Dimension, bool) { return s.dimension(KeyMinHeight) }

// MaxWidth is the upper width bound.
func (s Style) MaxWidth() (Dimension, bool) { return s.dimension(KeyMaxWidth) }

// MaxHeight is the upper height bound.
func (s Style) MaxHeight() (Dimension, bool) { return s.dimension(KeyMaxHeight) }

// BackgroundColor is a color string, e.g. "#RRGGBB".
func (s Style) BackgroundColor() (string, bool) { return s.GetString(KeyBackgroundColor) }

// CornerRadius in dp.
func (s Style) CornerRadius() (float64, bool) { return s.number(KeyCornerRadius) }

// BorderWidth in dp.
func (s Style) BorderWidth() (float64, bool) { return s.number(KeyBorderWidth) }

// BorderColor is a color string.
func (s Style) BorderColor() (string, bool) { return s.GetString(KeyBorderColor) }

// Opacity in the range [0, 1].
func (s Style) Opacity() (float64, bool) { return s.number(KeyOpacity) }

// Flex is the grow factor inside a flex container.
func (s Style) Flex() (float64, bool) { return s.number(KeyFlex) }

// Top offset, used with absolute positioning.
func (s Style) Top() (Dimension, bool) { return s.dimension(KeyTop) }

// Right offset, used with absolute positioning.
func (s Style) Right() (Dimension, bool) { return s.dimension(KeyRight) }

// Bottom offset, used with absolute positioning.
func (s Style) Bottom() (Dimension, bool) { return s.dimension(KeyBottom) }

// Left offset, used with absolute positioning.
func (s Style) Left() (Dimension, bool) { return s.dimension(KeyLeft) }

// Position reports relative or absolute positioning. Relative is the default.
func (s Style) Position() Position {
	v, ok := s.GetString(KeyPosition)
	if !ok {
		return PositionRelative
	}
	p, ok := ParsePosition(v)
	if !ok {
		return PositionRelative
	}
	return p
}

// Direction is the main axis of a container. Column is the default.
func (s Style) Direction() Direction {
	v, ok := s.GetString(KeyDirection)
	if !ok {
		return DirectionColumn
	}
	d, ok := ParseDirection(v)
	if !ok {
		return DirectionColumn
	}
	return d
}

// JustifyContent is the main-axis alignment.
func (s Style) JustifyContent() (Justify, bool) {
	v, ok := s.GetString(KeyJustifyContent)
	if !ok {
		return "", false
	}
	return ParseJustify(v)
}

// AlignItems is the cross-axis alignment.
func (s Style) AlignItems() (Align, bool) {
	v, ok := s.GetString(KeyAlignItems)
	if !ok {
		return "", false
	}
	return ParseAlign(v)
}

// Padding returns the effective padding per side.
func (s Style) Padding() Insets {
	return s.insets(KeyPadding, KeyPaddingHorizontal, KeyPaddingVertical,
		KeyPaddingTop, KeyPaddingRight, KeyPaddingBottom, KeyPaddingLeft)
}

// Margin returns the effective margin per side.
func (s Style) Margin() Insets {
	return s.insets(KeyMargin, KeyMarginHorizontal, KeyMarginVertical,
		KeyMarginTop, KeyMarginRight, KeyMarginBottom, KeyMarginLeft)
}

// insets applies the precedence side > axis > all.
func (s Style) insets(all, horizontal, vertical, top, right, bottom, left string) Insets {
	pick := func(keys ...string) Dimension {
		for _, k := range keys {
			if d, ok := s.dimension(k); ok {
				return d
			}
		}
		return Dimension{}
	}
	return Insets{
		Top:    pick(top, vertical, all),
		Right:  pick(right, horizontal, all),
		Bottom: pick(bottom, vertical, all),
		Left:   pick(left, horizontal, all),
	}
}

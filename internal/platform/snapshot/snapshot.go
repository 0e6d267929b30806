// Package snapshot renders component trees into a platform-neutral view tree.
// Snapshots carry every resolved attribute, which makes them the reference
// output for tests, diffs and CLI dumps.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/dispatch"
	"github.com/vk/sduigo/internal/platform"
	"github.com/vk/sduigo/internal/resolve"
	"github.com/vk/sduigo/internal/style"
	"gopkg.in/yaml.v3"
)

// View is one rendered node.
type View struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     string         `json:"kind" yaml:"kind"`
	Layout   *Layout        `json:"layout,omitempty" yaml:"layout,omitempty"`
	Style    map[string]any `json:"style,omitempty" yaml:"style,omitempty"`
	Attrs    map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Children []*View        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Layout is the effective flex layout of a container.
type Layout struct {
	Direction      string `json:"direction" yaml:"direction"`
	Position       string `json:"position" yaml:"position"`
	JustifyContent string `json:"justifyContent,omitempty" yaml:"justifyContent,omitempty"`
	AlignItems     string `json:"alignItems,omitempty" yaml:"alignItems,omitempty"`
}

// Renderers returns one renderer per built-in component type.
func Renderers() []dispatch.Renderer[*View] {
	return []dispatch.Renderer[*View]{
		dispatch.Func(platform.TypeView, renderContainer, appendChild),
		dispatch.Func(platform.TypeText, leaf(platform.PropText, platform.PropColor, platform.PropFontSize), nil),
		dispatch.Func(platform.TypeButton, leaf(platform.PropTitle, platform.PropEnabled), nil),
		dispatch.Func(platform.TypeImage, leaf(platform.PropURL, platform.PropAlt), nil),
		dispatch.Func(platform.TypeInput, leaf(platform.PropPlaceholder, platform.PropValue, platform.PropEnabled), nil),
	}
}

// NewRegistry returns the registry of built-in snapshot renderers.
func NewRegistry() *dispatch.Registry[*View] {
	return dispatch.MustNewRegistry(Renderers()...)
}

func appendChild(parent, child *View) *View {
	parent.Children = append(parent.Children, child)
	return parent
}

func base(b *resolve.Binding) (*View, style.Style) {
	st := b.Style()
	v := &View{ID: b.ID(), Kind: b.Type()}
	if st.Len() > 0 {
		v.Style = st.ToMap()
	}
	if b.Data().Len() > 0 {
		v.Data = b.Data().ToMap()
	}
	return v, st
}

func renderContainer(_ context.Context, b *resolve.Binding) (*View, bool) {
	v, st := base(b)
	l := &Layout{
		Direction: string(st.Direction()),
		Position:  string(st.Position()),
	}
	if j, ok := st.JustifyContent(); ok {
		l.JustifyContent = string(j)
	}
	if a, ok := st.AlignItems(); ok {
		l.AlignItems = string(a)
	}
	v.Layout = l
	return v, true
}

// leaf renders a node whose attributes are the given property keys.
func leaf(keys ...string) dispatch.RenderFunc[*View] {
	return func(_ context.Context, b *resolve.Binding) (*View, bool) {
		v, _ := base(b)
		attrs := make(map[string]any, len(keys))
		for _, k := range keys {
			if val, ok := b.Value(k, config.TypeOf[any]()); ok {
				attrs[k] = config.ToGo(val)
			}
		}
		if len(attrs) > 0 {
			v.Attrs = attrs
		}
		return v, true
	}
}

// EncodeJSON serialises a snapshot as indented JSON.
func EncodeJSON(v *View) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(out, '\n'), nil
}

// EncodeYAML serialises a snapshot as YAML.
func EncodeYAML(v *View) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return out, nil
}

// Count returns the number of views in the snapshot.
func (v *View) Count() int {
	if v == nil {
		return 0
	}
	n := 1
	for _, c := range v.Children {
		n += c.Count()
	}
	return n
}

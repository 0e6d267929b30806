package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/style"
	"github.com/zclconf/go-cty/cty"
)

func node(t *testing.T, doc string) *component.Component {
	t.Helper()
	c, err := component.BuildJSON(context.Background(), []byte(doc))
	require.NoError(t, err)
	return c
}

func props(t *testing.T, doc string) config.Config {
	t.Helper()
	c, err := config.FromJSON([]byte(doc))
	require.NoError(t, err)
	return c
}

func TestPipeline_TextBoundToProp(t *testing.T) {
	root := node(t, `{"type": "view", "style": {"direction": "row"}, "children": [
		{"type": "text", "properties": {"text": {"type": "prop", "key": "label"}}}
	]}`)
	text := root.Child(0)

	got, ok := As[string](DefaultPipeline(), text, "text", props(t, `{"label": "Hi"}`))
	require.True(t, ok)
	assert.Equal(t, "Hi", got)
}

func TestPipeline_PropBindingBeatsLiteral(t *testing.T) {
	c := node(t, `{"type": "text", "properties": {"color": {"type": "prop", "key": "p"}}, "style": {"color": "#000"}}`)

	got, ok := As[string](DefaultPipeline(), c, "color", props(t, `{"p": "#fff"}`))
	require.True(t, ok)
	assert.Equal(t, "#fff", got)
}

func TestPipeline_StyleBindingFallsThroughToLiteral(t *testing.T) {
	c := node(t, `{"type": "view", "style": {"backgroundColor": {"type": "prop"}}, "properties": {"backgroundColor": "#abc"}}`)

	got, ok := As[string](DefaultPipeline(), c, "backgroundColor", props(t, `{}`))
	require.True(t, ok, "missing prop falls through to the literal")
	assert.Equal(t, "#abc", got)

	got, ok = As[string](DefaultPipeline(), c, "backgroundColor", props(t, `{"backgroundColor": "#123"}`))
	require.True(t, ok)
	assert.Equal(t, "#123", got)
}

func TestPipeline_StyleBindingWithoutLiteralIsMiss(t *testing.T) {
	c := node(t, `{"type": "view", "style": {"width": {"type": "prop"}}}`)

	_, ok := DefaultPipeline().Resolve(c, "width", cty.DynamicPseudoType, props(t, `{}`))
	assert.False(t, ok, "a binding object is never returned as a literal")

	v, ok := DefaultPipeline().Resolve(c, "width", cty.Number, props(t, `{"width": 80}`))
	require.True(t, ok)
	assert.True(t, v.Equals(cty.NumberIntVal(80)).True())
}

func TestPipeline_StyleBindingMayRenameProp(t *testing.T) {
	c := node(t, `{"type": "view", "style": {"width": {"type": "prop", "key": "cardWidth"}}}`)

	got, ok := As[float64](DefaultPipeline(), c, "width", props(t, `{"cardWidth": 120, "width": 1}`))
	require.True(t, ok)
	assert.Equal(t, 120.0, got)
}

func TestPipeline_StyleBindingCheckedBeforePropertyBinding(t *testing.T) {
	c := node(t, `{"type": "text",
		"style": {"text": {"type": "prop"}},
		"properties": {"text": {"type": "prop", "key": "other"}}}`)

	got, ok := As[string](DefaultPipeline(), c, "text", props(t, `{"text": "from style", "other": "from property"}`))
	require.True(t, ok)
	assert.Equal(t, "from style", got)

	got, ok = As[string](DefaultPipeline(), c, "text", props(t, `{"other": "from property"}`))
	require.True(t, ok)
	assert.Equal(t, "from property", got)
}

func TestPipeline_ScalarPrecedence(t *testing.T) {
	c := node(t, `{"type": "view", "properties": {"opacity": 0.5}, "style": {"opacity": 1, "padding": 4}}`)

	got, ok := As[float64](DefaultPipeline(), c, "opacity", config.Empty())
	require.True(t, ok)
	assert.Equal(t, 0.5, got, "declared properties win over style")

	got, ok = As[float64](DefaultPipeline(), c, "padding", config.Empty())
	require.True(t, ok)
	assert.Equal(t, 4.0, got)
}

func TestPipeline_TypeMismatchDegrades(t *testing.T) {
	c := node(t, `{"type": "text", "properties": {"text": {"type": "prop", "key": "label"}}, "style": {"text": "fallback"}}`)

	got, ok := As[string](DefaultPipeline(), c, "text", props(t, `{"label": 42}`))
	require.True(t, ok, "wrongly typed prop falls through")
	assert.Equal(t, "fallback", got)

	_, ok = As[bool](DefaultPipeline(), c, "text", props(t, `{"label": 42}`))
	assert.False(t, ok, "nothing matches, caller picks the default")
}

func TestPipeline_Insert(t *testing.T) {
	computed := Func("computed", func(req Request) (cty.Value, bool) {
		if req.Key == "initials" {
			return cty.StringVal("AB"), true
		}
		return cty.NilVal, false
	})

	base := DefaultPipeline()
	p := base.Insert(1, computed)
	assert.Equal(t, []string{"props", "scalar"}, base.Names(), "insert does not mutate the original")
	assert.Equal(t, []string{"props", "computed", "scalar"}, p.Names())
	assert.Equal(t, []string{"computed", "props", "scalar"}, base.Insert(-3, computed).Names())
	assert.Equal(t, []string{"props", "scalar", "computed"}, base.Insert(99, computed).Names())

	c := node(t, `{"type": "text", "properties": {"initials": {"type": "prop", "key": "i"}}}`)
	got, ok := As[string](p, c, "initials", config.Empty())
	require.True(t, ok)
	assert.Equal(t, "AB", got)

	_, who, ok := p.ResolveFrom(c, "initials", cty.String, props(t, `{"i": "CD"}`))
	require.True(t, ok)
	assert.Equal(t, "props", who)
}

func TestBinding_Style(t *testing.T) {
	c := node(t, `{"type": "view",
		"style": {"width": {"type": "prop"}, "height": "50%", "backgroundColor": {"type": "prop", "key": "bg"}}}`)
	b := Bind(nil, c, props(t, `{"width": 200}`))

	st := b.Style()
	w, ok := st.Width()
	require.True(t, ok)
	assert.Equal(t, style.Points(200), w)

	h, ok := st.Height()
	require.True(t, ok)
	assert.Equal(t, style.Percent(50), h)

	_, ok = st.BackgroundColor()
	assert.False(t, ok, "unbound keys are dropped")
	assert.Equal(t, []string{"height", "width"}, st.Keys())
}

func TestBinding_Accessors(t *testing.T) {
	c := node(t, `{"id": "b1", "type": "button",
		"properties": {"title": {"type": "prop", "key": "cta"}, "enabled": true, "size": 3},
		"data": {"action": "open"}}`)
	b := Bind(DefaultPipeline(), c, props(t, `{"cta": "Buy"}`))

	assert.Equal(t, "b1", b.ID())
	assert.Equal(t, "button", b.Type())

	title, ok := b.String("title")
	require.True(t, ok)
	assert.Equal(t, "Buy", title)

	enabled, ok := b.Bool("enabled")
	require.True(t, ok)
	assert.True(t, enabled)

	size, ok := b.Number("size")
	require.True(t, ok)
	assert.Equal(t, 3.0, size)

	action, _ := b.Data().GetString("action")
	assert.Equal(t, "open", action)

	resolved := b.Properties()
	assert.Equal(t, map[string]any{"title": "Buy", "enabled": true, "size": int64(3)}, resolved.ToMap())
}

func TestPipeline_IsPure(t *testing.T) {
	c := node(t, `{"type": "text", "properties": {"text": {"type": "prop", "key": "label"}}}`)
	p := DefaultPipeline()
	pr := props(t, `{"label": "same"}`)

	first, ok1 := p.Resolve(c, "text", cty.String, pr)
	second, ok2 := p.Resolve(c, "text", cty.String, pr)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.True(t, first.RawEquals(second))
}

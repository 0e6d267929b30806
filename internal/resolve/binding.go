package resolve

import (
	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/style"
	"github.com/zclconf/go-cty/cty"
)

// Binding ties one component to the runtime props and a pipeline. Renderers
// read every attribute through it.
type Binding struct {
	pipeline  *Pipeline
	component *component.Component
	props     config.Config
}

// Bind creates a Binding. A nil pipeline means DefaultPipeline.
func Bind(p *Pipeline, c *component.Component, props config.Config) *Binding {
	if p == nil {
		p = DefaultPipeline()
	}
	return &Binding{pipeline: p, component: c, props: props}
}

// Component returns the bound component.
func (b *Binding) Component() *component.Component { return b.component }

// ID is the component id.
func (b *Binding) ID() string { return b.component.ID() }

// Type is the component type tag.
func (b *Binding) Type() string { return b.component.Type() }

// Props returns the runtime props.
func (b *Binding) Props() config.Config { return b.props }

// Data returns the static payload.
func (b *Binding) Data() config.Config { return b.component.Data() }

// Value resolves key as ty.
func (b *Binding) Value(key string, ty cty.Type) (cty.Value, bool) {
	return b.pipeline.Resolve(b.component, key, ty, b.props)
}

// String resolves key as a string.
func (b *Binding) String(key string) (string, bool) {
	return As[string](b.pipeline, b.component, key, b.props)
}

// Number resolves key as a number.
func (b *Binding) Number(key string) (float64, bool) {
	return As[float64](b.pipeline, b.component, key, b.props)
}

// Bool resolves key as a boolean.
func (b *Binding) Bool(key string) (bool, bool) {
	return As[bool](b.pipeline, b.component, key, b.props)
}

// Style resolves every declared style key through the pipeline and returns
// the result as a literal Style. Keys that resolve to nothing are dropped.
func (b *Binding) Style() style.Style {
	return style.New(b.resolveAll(b.component.Style().Keys()))
}

// Properties resolves every declared property key through the pipeline.
func (b *Binding) Properties() config.Config {
	return b.resolveAll(b.component.Properties().Keys())
}

func (b *Binding) resolveAll(keys []string) config.Config {
	attrs := make(map[string]cty.Value, len(keys))
	for _, k := range keys {
		if v, ok := b.Value(k, cty.DynamicPseudoType); ok {
			attrs[k] = v
		}
	}
	if len(attrs) == 0 {
		return config.Empty()
	}
	return config.MustNew(cty.ObjectVal(attrs))
}

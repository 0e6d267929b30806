package resolve

import (
	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/style"
	"github.com/zclconf/go-cty/cty"
)

// BindingProp is the discriminator of a runtime prop binding.
const BindingProp = "prop"

// BindingKeyField names the prop a property binding reads from.
const BindingKeyField = "key"

// Request is the input of a single resolution.
type Request struct {
	Component *component.Component
	Key       string
	Type      cty.Type
	Props     config.Config
}

// Resolver is one strategy in the chain.
type Resolver interface {
	// Name identifies the resolver in diagnostics.
	Name() string
	// Resolve returns a value matching req.Type, or false.
	Resolve(req Request) (cty.Value, bool)
}

type funcResolver struct {
	name string
	fn   func(Request) (cty.Value, bool)
}

func (f funcResolver) Name() string                          { return f.name }
func (f funcResolver) Resolve(req Request) (cty.Value, bool) { return f.fn(req) }

// Func adapts a function into a named Resolver.
func Func(name string, fn func(Request) (cty.Value, bool)) Resolver {
	return funcResolver{name: name, fn: fn}
}

// PropsResolver serves values bound to the runtime Props.
//
// A style entry {"type": "prop"} binds the property to the prop of the same
// name (or to the prop named by its "key" field, when present). A property
// entry {"type": "prop", "key": "..."} binds it to the named prop. The style
// binding is consulted first.
type PropsResolver struct{}

func (PropsResolver) Name() string { return "props" }

func (PropsResolver) Resolve(req Request) (cty.Value, bool) {
	c := req.Component
	if binding, ok := c.Style().GetConfig(req.Key); ok && isProp(binding) {
		propKey := req.Key
		if k, ok := binding.GetString(BindingKeyField); ok && k != "" {
			propKey = k
		}
		if v, ok := req.Props.Lookup(propKey); ok && config.Matches(v, req.Type) {
			return v, true
		}
	}
	if binding, ok := c.Properties().GetConfig(req.Key); ok && isProp(binding) {
		if propKey, ok := binding.GetString(BindingKeyField); ok && propKey != "" {
			if v, ok := req.Props.Lookup(propKey); ok && config.Matches(v, req.Type) {
				return v, true
			}
		}
	}
	return cty.NilVal, false
}

// ScalarResolver serves literal values: the declared property first, the
// style entry second. Binding objects are never returned as literals.
type ScalarResolver struct{}

func (ScalarResolver) Name() string { return "scalar" }

func (ScalarResolver) Resolve(req Request) (cty.Value, bool) {
	c := req.Component
	if v, ok := c.Properties().Lookup(req.Key); ok && !IsBinding(v) && config.Matches(v, req.Type) {
		return v, true
	}
	if v, ok := c.Style().Lookup(req.Key); ok && !IsBinding(v) && config.Matches(v, req.Type) {
		return v, true
	}
	return cty.NilVal, false
}

// IsBinding reports whether v is a prop binding object.
func IsBinding(v cty.Value) bool {
	c, err := config.New(v)
	if err != nil {
		return false
	}
	return isProp(c)
}

func isProp(c config.Config) bool {
	kind, ok := c.GetString(style.BindingTypeKey)
	return ok && kind == BindingProp
}

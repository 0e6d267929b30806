package resolve

import (
	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Pipeline is an immutable, ordered chain of resolvers.
type Pipeline struct {
	resolvers []Resolver
}

// NewPipeline builds a pipeline trying resolvers in the given order.
func NewPipeline(resolvers ...Resolver) *Pipeline {
	rs := make([]Resolver, 0, len(resolvers))
	for _, r := range resolvers {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return &Pipeline{resolvers: rs}
}

// DefaultPipeline is PropsResolver followed by ScalarResolver.
func DefaultPipeline() *Pipeline {
	return NewPipeline(PropsResolver{}, ScalarResolver{})
}

// Insert returns a new pipeline with r placed at index i. Indexes outside the
// chain append or prepend.
func (p *Pipeline) Insert(i int, r Resolver) *Pipeline {
	i = max(0, min(i, len(p.resolvers)))
	rs := make([]Resolver, 0, len(p.resolvers)+1)
	rs = append(rs, p.resolvers[:i]...)
	rs = append(rs, r)
	rs = append(rs, p.resolvers[i:]...)
	return NewPipeline(rs...)
}

// Names lists the resolvers in priority order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.resolvers))
	for _, r := range p.resolvers {
		names = append(names, r.Name())
	}
	return names
}

// Resolve returns the first value produced by the chain for key, or false.
func (p *Pipeline) Resolve(c *component.Component, key string, ty cty.Type, props config.Config) (cty.Value, bool) {
	v, _, ok := p.ResolveFrom(c, key, ty, props)
	return v, ok
}

// ResolveFrom is Resolve that also reports which resolver answered.
func (p *Pipeline) ResolveFrom(c *component.Component, key string, ty cty.Type, props config.Config) (cty.Value, string, bool) {
	if c == nil {
		return cty.NilVal, "", false
	}
	req := Request{Component: c, Key: key, Type: ty, Props: props}
	for _, r := range p.resolvers {
		v, ok := r.Resolve(req)
		if ok && config.Matches(v, ty) {
			return v, r.Name(), true
		}
	}
	return cty.NilVal, "", false
}

// As resolves key and decodes the result into T.
func As[T any](p *Pipeline, c *component.Component, key string, props config.Config) (T, bool) {
	v, ok := p.Resolve(c, key, config.TypeOf[T](), props)
	if !ok {
		var zero T
		return zero, false
	}
	return config.Decode[T](v)
}

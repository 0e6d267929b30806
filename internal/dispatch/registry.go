package dispatch

import (
	"errors"
	"sort"
)

// Registry is a read-only mapping from component type to Renderer.
type Registry[V any] struct {
	renderers map[string]Renderer[V]
}

// NewRegistry builds a registry from the full set of renderers. It fails on
// nil renderers, empty type tags and duplicate types.
func NewRegistry[V any](renderers ...Renderer[V]) (*Registry[V], error) {
	reg := &Registry[V]{renderers: make(map[string]Renderer[V], len(renderers))}
	for _, r := range renderers {
		if r == nil {
			return nil, errors.New("nil renderer")
		}
		typ := r.Type()
		if typ == "" {
			return nil, errors.New("renderer with empty component type")
		}
		if _, exists := reg.renderers[typ]; exists {
			return nil, &DuplicateRendererError{Type: typ}
		}
		reg.renderers[typ] = r
	}
	return reg, nil
}

// MustNewRegistry is NewRegistry that panics on error. It is meant for the
// built-in platforms, whose renderer sets are fixed at compile time.
func MustNewRegistry[V any](renderers ...Renderer[V]) *Registry[V] {
	reg, err := NewRegistry(renderers...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup returns the renderer registered for typ.
func (r *Registry[V]) Lookup(typ string) (Renderer[V], bool) {
	if r == nil {
		return nil, false
	}
	rn, ok := r.renderers[typ]
	return rn, ok
}

// Types lists the registered component types in sorted order.
func (r *Registry[V]) Types() []string {
	if r == nil {
		return nil
	}
	types := make([]string, 0, len(r.renderers))
	for t := range r.renderers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Has reports whether typ has a renderer.
func (r *Registry[V]) Has(typ string) bool {
	_, ok := r.Lookup(typ)
	return ok
}

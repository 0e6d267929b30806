package dispatch

import (
	"context"

	"github.com/vk/sduigo/internal/resolve"
)

// Renderer renders one component type into a platform view of type V.
type Renderer[V any] interface {
	// Type is the component type tag this renderer handles.
	Type() string
	// Render builds the view for a single node, without its children. It
	// returns false when the node should be skipped.
	Render(ctx context.Context, b *resolve.Binding) (V, bool)
	// AppendChild attaches child to parent and returns the updated parent.
	AppendChild(parent, child V) V
}

// RenderFunc renders a single node.
type RenderFunc[V any] func(ctx context.Context, b *resolve.Binding) (V, bool)

// AppendFunc attaches a rendered child to its rendered parent.
type AppendFunc[V any] func(parent, child V) V

type funcRenderer[V any] struct {
	typ    string
	render RenderFunc[V]
	append AppendFunc[V]
}

func (f funcRenderer[V]) Type() string { return f.typ }

func (f funcRenderer[V]) Render(ctx context.Context, b *resolve.Binding) (V, bool) {
	return f.render(ctx, b)
}

func (f funcRenderer[V]) AppendChild(parent, child V) V {
	if f.append == nil {
		return parent
	}
	return f.append(parent, child)
}

// Func adapts plain functions into a Renderer. A nil appendChild makes the
// renderer a leaf that ignores children.
func Func[V any](typ string, render RenderFunc[V], appendChild AppendFunc[V]) Renderer[V] {
	return funcRenderer[V]{typ: typ, render: render, append: appendChild}
}

package dispatch

import (
	"context"

	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/resolve"
)

// Observer receives one event per visited node. Implementations must be safe
// for concurrent use when the dispatcher is shared.
type Observer interface {
	Rendered(typ string)
	Skipped(typ, id string)
}

type noopObserver struct{}

func (noopObserver) Rendered(string)        {}
func (noopObserver) Skipped(string, string) {}

type options struct {
	observer Observer
}

// Option configures a Dispatcher.
type Option func(*options)

// WithObserver reports every rendered and skipped node to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// Dispatcher renders component trees with a fixed registry and pipeline. It
// holds no per-render state, so one Dispatcher may render different trees
// concurrently.
type Dispatcher[V any] struct {
	registry *Registry[V]
	pipeline *resolve.Pipeline
	observer Observer
}

// NewDispatcher creates a dispatcher. A nil pipeline means
// resolve.DefaultPipeline.
func NewDispatcher[V any](reg *Registry[V], pipeline *resolve.Pipeline, opts ...Option) *Dispatcher[V] {
	o := options{observer: noopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	if pipeline == nil {
		pipeline = resolve.DefaultPipeline()
	}
	return &Dispatcher[V]{registry: reg, pipeline: pipeline, observer: o.observer}
}

// Registry returns the renderer registry.
func (d *Dispatcher[V]) Registry() *Registry[V] { return d.registry }

// Render renders c and its subtree. It returns false when c itself has no
// renderer, in which case nothing is produced.
func (d *Dispatcher[V]) Render(ctx context.Context, c *component.Component, props config.Config) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	return d.render(ctx, c, props)
}

func (d *Dispatcher[V]) render(ctx context.Context, c *component.Component, props config.Config) (V, bool) {
	var zero V
	r, ok := d.registry.Lookup(c.Type())
	if !ok {
		ctxlog.FromContext(ctx).Debug("No renderer for component type, skipping subtree.", "id", c.ID(), "type", c.Type())
		d.observer.Skipped(c.Type(), c.ID())
		return zero, false
	}

	view, ok := r.Render(ctx, resolve.Bind(d.pipeline, c, props))
	if !ok {
		ctxlog.FromContext(ctx).Debug("Renderer produced no view, skipping subtree.", "id", c.ID(), "type", c.Type())
		d.observer.Skipped(c.Type(), c.ID())
		return zero, false
	}
	d.observer.Rendered(c.Type())

	for _, child := range c.Children() {
		cv, ok := d.render(ctx, child, props)
		if !ok {
			continue
		}
		view = r.AppendChild(view, cv)
	}
	return view, true
}

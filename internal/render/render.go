// Package render runs a parsed scenario through one of the built-in
// platforms and serialises the result. It is shared by the CLI and the
// preview endpoint of the server.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/dispatch"
	"github.com/vk/sduigo/internal/metrics"
	"github.com/vk/sduigo/internal/platform"
	"github.com/vk/sduigo/internal/platform/snapshot"
	"github.com/vk/sduigo/internal/platform/web"
	"github.com/vk/sduigo/internal/resolve"
	"github.com/vk/sduigo/internal/scenario"
	"golang.org/x/net/html"
)

// Snapshot output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	// ErrUnknownPlatform is returned for a platform name with no renderers.
	ErrUnknownPlatform = errors.New("unknown platform")
	// ErrUnknownFormat is returned for an unsupported snapshot format.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnknownFragment is returned when the requested fragment is missing.
	ErrUnknownFragment = errors.New("unknown fragment")
	// ErrEmpty is returned when the root component has no renderer.
	ErrEmpty = errors.New("nothing rendered")
)

// Request selects what to render and how.
type Request struct {
	Scenario *scenario.Scenario
	// Fragment renders the named fragment instead of the main tree.
	Fragment string
	Platform string
	// Format applies to snapshots: json (default) or yaml.
	Format string
	Props  config.Config
	// Page wraps web output in a complete HTML document.
	Page bool
}

// Output is a serialised view tree.
type Output struct {
	ContentType string
	Body        []byte
	Views       int
}

// Engine holds one dispatcher per platform. It is safe for concurrent use.
type Engine struct {
	snapshot *dispatch.Dispatcher[*snapshot.View]
	web      *dispatch.Dispatcher[*html.Node]
	metrics  metrics.Metrics
}

// NewEngine builds the built-in platforms around pipeline. A nil pipeline
// means resolve.DefaultPipeline; nil metrics means metrics.Noop.
func NewEngine(pipeline *resolve.Pipeline, m metrics.Metrics) *Engine {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Engine{
		snapshot: dispatch.NewDispatcher(snapshot.NewRegistry(), pipeline, dispatch.WithObserver(m)),
		web:      dispatch.NewDispatcher(web.NewRegistry(), pipeline, dispatch.WithObserver(m)),
		metrics:  m,
	}
}

// Render renders req.
func (e *Engine) Render(ctx context.Context, req Request) (*Output, error) {
	root, err := pick(req)
	if err != nil {
		return nil, err
	}
	p := req.Platform
	if p == "" {
		p = platform.Snapshot
	}

	start := time.Now()
	var out *Output
	switch p {
	case platform.Snapshot:
		out, err = e.renderSnapshot(ctx, root, req)
	case platform.Web:
		out, err = e.renderWeb(ctx, root, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
	}
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveRender(p, time.Since(start).Seconds())
	ctxlog.FromContext(ctx).Debug("Rendered scenario.", "scenario", req.Scenario.Name, "platform", p,
		"fragment", req.Fragment, "views", out.Views)
	return out, nil
}

func pick(req Request) (*component.Component, error) {
	if req.Scenario == nil {
		return nil, errors.New("no scenario to render")
	}
	if req.Fragment == "" {
		return req.Scenario.Main, nil
	}
	c, ok := req.Scenario.Fragment(req.Fragment)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFragment, req.Fragment)
	}
	return c, nil
}

func (e *Engine) renderSnapshot(ctx context.Context, root *component.Component, req Request) (*Output, error) {
	var encode func(*snapshot.View) ([]byte, error)
	var contentType string
	switch req.Format {
	case "", FormatJSON:
		encode, contentType = snapshot.EncodeJSON, "application/json"
	case FormatYAML:
		encode, contentType = snapshot.EncodeYAML, "application/yaml"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}

	v, ok := e.snapshot.Render(ctx, root, req.Props)
	if !ok {
		return nil, fmt.Errorf("%w: root component type %q", ErrEmpty, root.Type())
	}
	body, err := encode(v)
	if err != nil {
		return nil, err
	}
	return &Output{ContentType: contentType, Body: body, Views: v.Count()}, nil
}

func (e *Engine) renderWeb(ctx context.Context, root *component.Component, req Request) (*Output, error) {
	n, ok := e.web.Render(ctx, root, req.Props)
	if !ok {
		return nil, fmt.Errorf("%w: root component type %q", ErrEmpty, root.Type())
	}
	views := countElements(n)
	if req.Page {
		title := req.Scenario.Name
		if title == "" {
			title = "sduigo"
		}
		n = web.Page(title, n)
	}
	body, err := web.Render(n)
	if err != nil {
		return nil, err
	}
	return &Output{ContentType: "text/html; charset=utf-8", Body: []byte(body), Views: views}, nil
}

func countElements(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countElements(c)
	}
	return count
}

// Package metrics exposes counters for rendering and the scenario service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the full set of counters recorded by sduigo. It satisfies
// dispatch.Observer.
type Metrics interface {
	Rendered(componentType string)
	Skipped(componentType, id string)
	ObserveRender(platform string, durationSeconds float64)
	IncPublished(scenario string)
	IncCompileFailed()
	ObserveRequest(method, route, status string, durationSeconds float64)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) Rendered(string)                                {}
func (Noop) Skipped(string, string)                         {}
func (Noop) ObserveRender(string, float64)                  {}
func (Noop) IncPublished(string)                            {}
func (Noop) IncCompileFailed()                              {}
func (Noop) ObserveRequest(string, string, string, float64) {}

// Prom implements Metrics backed by Prometheus collectors.
type Prom struct {
	rendered       *prometheus.CounterVec
	skipped        *prometheus.CounterVec
	renderLatency  *prometheus.HistogramVec
	published      *prometheus.CounterVec
	compileFailed  prometheus.Counter
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewProm creates the collectors under namespace and registers them with
// reg. A nil reg means prometheus.DefaultRegisterer.
func NewProm(namespace string, reg prometheus.Registerer) *Prom {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prom{
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_rendered_total",
			Help:      "Components rendered by type",
		}, []string{"type"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_skipped_total",
			Help:      "Components skipped by type, usually for lack of a renderer",
		}, []string{"type"}),
		renderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render pass latency by platform",
			Buckets:   prometheus.DefBuckets,
		}, []string{"platform"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_published_total",
			Help:      "Scenario documents published by name",
		}, []string{"scenario"}),
		compileFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_failures_total",
			Help:      "Failed compilations of authoring sources",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method/route/status",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method/route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(p.rendered, p.skipped, p.renderLatency, p.published, p.compileFailed, p.requests, p.requestLatency)
	return p
}

func (p *Prom) Rendered(componentType string) {
	p.rendered.WithLabelValues(componentType).Inc()
}

// Skipped drops the id label; ids are unbounded.
func (p *Prom) Skipped(componentType, _ string) {
	p.skipped.WithLabelValues(componentType).Inc()
}

func (p *Prom) ObserveRender(platform string, durationSeconds float64) {
	p.renderLatency.WithLabelValues(platform).Observe(durationSeconds)
}

func (p *Prom) IncPublished(scenario string) {
	p.published.WithLabelValues(scenario).Inc()
}

func (p *Prom) IncCompileFailed() {
	p.compileFailed.Inc()
}

func (p *Prom) ObserveRequest(method, route, status string, durationSeconds float64) {
	p.requests.WithLabelValues(method, route, status).Inc()
	p.requestLatency.WithLabelValues(method, route).Observe(durationSeconds)
}

// Handler returns an HTTP handler for /metrics serving g. A nil g means
// prometheus.DefaultGatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

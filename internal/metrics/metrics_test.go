package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	var m Metrics = Noop{}
	m.Rendered("text")
	m.Skipped("carousel", "x")
	m.ObserveRender("web", 0.01)
	m.IncPublished("home")
	m.IncCompileFailed()
	m.ObserveRequest("GET", "/health", "200", 0.01)
}

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewProm("sduigo", reg)

	m.Rendered("text")
	m.Rendered("text")
	m.Skipped("carousel", "x1")
	m.Skipped("carousel", "x2")
	m.IncPublished("home")
	m.IncCompileFailed()
	m.ObserveRender("web", 0.002)
	m.ObserveRequest("GET", "/scenarios", "200", 0.01)

	families, err := reg.Gather()
	require.NoError(t, err)

	assert.Equal(t, 2.0, counterValue(families, "sduigo_components_rendered_total", map[string]string{"type": "text"}))
	assert.Equal(t, 2.0, counterValue(families, "sduigo_components_skipped_total", map[string]string{"type": "carousel"}))
	assert.Equal(t, 1.0, counterValue(families, "sduigo_scenarios_published_total", map[string]string{"scenario": "home"}))
	assert.Equal(t, 1.0, counterValue(families, "sduigo_compile_failures_total", nil))
	assert.Equal(t, 1.0, counterValue(families, "sduigo_http_requests_total", map[string]string{"method": "GET", "route": "/scenarios", "status": "200"}))
	assert.True(t, hasMetric(families, "sduigo_render_duration_seconds", map[string]string{"platform": "web"}))
	assert.True(t, hasMetric(families, "sduigo_http_request_duration_seconds", map[string]string{"method": "GET", "route": "/scenarios"}))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewProm("sduigo", reg)
	m.IncPublished("home")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `sduigo_scenarios_published_total{scenario="home"} 1`))
}

func findMetric(families []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			if labelsMatch(m.GetLabel(), labels) {
				return m
			}
		}
	}
	return nil
}

func hasMetric(families []*dto.MetricFamily, name string, labels map[string]string) bool {
	return findMetric(families, name, labels) != nil
}

func counterValue(families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	m := findMetric(families, name, labels)
	if m == nil {
		return -1
	}
	return m.GetCounter().GetValue()
}

func labelsMatch(pairs []*dto.LabelPair, want map[string]string) bool {
	if len(pairs) != len(want) {
		return false
	}
	for _, p := range pairs {
		if want[p.GetName()] != p.GetValue() {
			return false
		}
	}
	return true
}

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sduigo/internal/inmemorystore"
	"github.com/vk/sduigo/internal/metrics"
)

const homeDoc = `{
	"name": "home",
	"version": "1.0.0",
	"buildNumber": 3,
	"mainComponent": {"id": "root", "type": "view", "children": [
		{"id": "greeting", "type": "text", "properties": {"text": {"type": "prop", "key": "name"}}}
	]},
	"components": {
		"cta": {"id": "cta", "type": "button", "properties": {"title": "Buy"}}
	}
}`

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s := New(inmemorystore.New(), opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestServer_PublishAndFetch(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := do(t, http.MethodPut, ts.URL+"/scenarios/home", homeDoc)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, ts.URL+"/scenarios", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"scenarios":["home"]}`, body)

	resp, body = do(t, http.MethodGet, ts.URL+"/scenarios/home", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, homeDoc, body)
}

func TestServer_PutRejectsInvalidDocuments(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"not json", "/scenarios/home", "{", http.StatusUnprocessableEntity},
		{"missing version", "/scenarios/home", `{"buildNumber":1,"mainComponent":{"type":"view"}}`, http.StatusUnprocessableEntity},
		{"bad tree", "/scenarios/home", `{"version":"1.0.0","buildNumber":1,"mainComponent":{"type":"view","children":{}}}`, http.StatusUnprocessableEntity},
		{"bad name", "/scenarios/-home", homeDoc, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPut, ts.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, body)
		})
	}

	_, body := do(t, http.MethodGet, ts.URL+"/scenarios", "")
	assert.JSONEq(t, `{"scenarios":[]}`, body)
}

func TestServer_NotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := do(t, http.MethodGet, ts.URL+"/scenarios/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/scenarios/missing/render", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/scenarios/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Delete(t *testing.T) {
	_, ts := newTestServer(t)
	do(t, http.MethodPut, ts.URL+"/scenarios/home", homeDoc)

	resp, _ := do(t, http.MethodDelete, ts.URL+"/scenarios/home", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/scenarios/home", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Render(t *testing.T) {
	_, ts := newTestServer(t)
	do(t, http.MethodPut, ts.URL+"/scenarios/home", homeDoc)

	t.Run("snapshot with props", func(t *testing.T) {
		resp, body := do(t, http.MethodPost, ts.URL+"/scenarios/home/render", `{"name":"Ada"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var view struct {
			Kind     string `json:"kind"`
			Children []struct {
				Attrs map[string]any `json:"attrs"`
			} `json:"children"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &view))
		assert.Equal(t, "view", view.Kind)
		require.Len(t, view.Children, 1)
		assert.Equal(t, "Ada", view.Children[0].Attrs["text"])
	})

	t.Run("web fragment", func(t *testing.T) {
		resp, body := do(t, http.MethodPost, ts.URL+"/scenarios/home/render?platform=web&fragment=cta", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, body, `data-sdui-id="cta"`)
		assert.Contains(t, body, ">Buy</button>")
	})

	t.Run("unknown platform", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, ts.URL+"/scenarios/home/render?platform=tv", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown fragment", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, ts.URL+"/scenarios/home/render?fragment=nope", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad props", func(t *testing.T) {
		resp, _ := do(t, http.MethodPost, ts.URL+"/scenarios/home/render", `[1,2]`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, ts := newTestServer(t, WithMetrics(metrics.NewProm("sduigo", reg), reg))

	do(t, http.MethodGet, ts.URL+"/health", "")
	do(t, http.MethodPut, ts.URL+"/scenarios/home", homeDoc)

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `sduigo_http_requests_total{method="GET",route="GET /health",status="200"} 1`)
	assert.Contains(t, body, `sduigo_scenarios_published_total{scenario="home"} 1`)
}

func dialWS(t *testing.T, s *Server, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	before := s.hub.count()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return s.hub.count() == before+1 }, time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	return evt
}

func TestServer_LiveReload(t *testing.T) {
	s, ts := newTestServer(t)
	a := dialWS(t, s, ts)
	b := dialWS(t, s, ts)

	require.NoError(t, s.Publish(context.Background(), "home", []byte(homeDoc)))
	for _, conn := range []*websocket.Conn{a, b} {
		evt := readEvent(t, conn)
		assert.Equal(t, EventUpdated, evt.Event)
		assert.Equal(t, "home", evt.Scenario)
		assert.NotEmpty(t, evt.ID)
	}

	require.NoError(t, s.Remove(context.Background(), "home"))
	evt := readEvent(t, a)
	assert.Equal(t, EventDeleted, evt.Event)
}

func TestServer_LiveReloadClientDisconnect(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dialWS(t, s, ts)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.hub.count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestServer_RelayStoreUpdates(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dialWS(t, s, ts)
	require.NoError(t, s.store.Put(context.Background(), "home", []byte(homeDoc)))

	updates := make(chan string, 2)
	updates <- "home"
	updates <- "gone"
	close(updates)
	s.relay(context.Background(), updates)

	first := readEvent(t, conn)
	assert.Equal(t, Event{ID: first.ID, Event: EventUpdated, Scenario: "home", At: first.At}, first)
	second := readEvent(t, conn)
	assert.Equal(t, EventDeleted, second.Event)
	assert.Equal(t, "gone", second.Scenario)
}

func TestHub_DropsSlowClients(t *testing.T) {
	s, ts := newTestServer(t)
	_ = dialWS(t, s, ts)

	// Never read; the client buffer plus the socket buffers eventually fill.
	require.Eventually(t, func() bool {
		for range 64 {
			s.hub.broadcast(newEvent(EventUpdated, strings.Repeat("x", 4096)))
		}
		return s.hub.count() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestServer_Run(t *testing.T) {
	s := New(inmemorystore.New())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

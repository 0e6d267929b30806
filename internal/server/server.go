// Package server exposes published scenarios over HTTP: listing, fetching,
// publishing, render previews for the built-in platforms, Prometheus
// metrics and a websocket that announces every change for live reload.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/metrics"
	"github.com/vk/sduigo/internal/render"
	"github.com/vk/sduigo/internal/scenario"
	"github.com/vk/sduigo/internal/scenariostore"
)

const maxBodyBytes = 4 << 20

// Server serves scenarios from a store.
type Server struct {
	store    scenariostore.Store
	engine   *render.Engine
	metrics  metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	hub      *hub
	upgrader websocket.Upgrader
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request and render metrics in m and serves g on
// /metrics.
func WithMetrics(m metrics.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithLogger sets the base logger for requests.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithEngine overrides the render engine.
func WithEngine(e *render.Engine) Option {
	return func(s *Server) { s.engine = e }
}

// New creates a server over store.
func New(store scenariostore.Store, opts ...Option) *Server {
	s := &Server{
		store:   store,
		metrics: metrics.Noop{},
		logger:  slog.New(slog.DiscardHandler),
		hub:     newHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = render.NewEngine(nil, s.metrics)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler(s.gatherer))
	mux.HandleFunc("GET /scenarios", s.handleList)
	mux.HandleFunc("GET /scenarios/{name}", s.handleGet)
	mux.HandleFunc("PUT /scenarios/{name}", s.handlePut)
	mux.HandleFunc("DELETE /scenarios/{name}", s.handleDelete)
	mux.HandleFunc("POST /scenarios/{name}/render", s.handleRender)
	mux.HandleFunc("GET /ws", s.handleWS)
	s.handler = s.instrument(mux)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Publish validates doc, stores it under name and announces the change.
func (s *Server) Publish(ctx context.Context, name string, doc []byte) error {
	if err := scenariostore.ValidateName(name); err != nil {
		return err
	}
	if _, err := scenario.Parse(ctx, doc); err != nil {
		return err
	}
	if err := s.store.Put(ctx, name, doc); err != nil {
		return err
	}
	s.metrics.IncPublished(name)
	if _, ok := s.store.(scenariostore.Notifier); !ok {
		s.hub.broadcast(newEvent(EventUpdated, name))
	}
	ctxlog.FromContext(ctx).Info("Scenario published.", "scenario", name, "bytes", len(doc))
	return nil
}

// Remove deletes name and announces the change.
func (s *Server) Remove(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	if _, ok := s.store.(scenariostore.Notifier); !ok {
		s.hub.broadcast(newEvent(EventDeleted, name))
	}
	ctxlog.FromContext(ctx).Info("Scenario removed.", "scenario", name)
	return nil
}

// Run serves on addr until ctx is cancelled. Stores that announce their own
// changes are relayed to live-reload clients.
func (s *Server) Run(ctx context.Context, addr string) error {
	logger := ctxlog.FromContext(ctx)

	if n, ok := s.store.(scenariostore.Notifier); ok {
		updates, err := n.Subscribe(ctx)
		if err != nil {
			return err
		}
		go s.relay(ctx, updates)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening.", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) relay(ctx context.Context, updates <-chan string) {
	for name := range updates {
		kind := EventUpdated
		if _, err := s.store.Get(ctx, name); errors.Is(err, scenariostore.ErrNotFound) {
			kind = EventDeleted
		}
		s.hub.broadcast(newEvent(kind, name))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack is required by the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.logger.With("request_id", uuid.NewString(), "method", r.Method, "path", r.URL.Path)
		r = r.WithContext(ctxlog.WithLogger(r.Context(), logger))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(r.Method, route, fmt.Sprint(rec.status), elapsed.Seconds())
		logger.Debug("Request handled.", "route", route, "status", rec.status, "duration", elapsed)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("Failed to list scenarios.", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"scenarios": names})
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	name := r.PathValue("name")
	doc, err := s.store.Get(r.Context(), name)
	if errors.Is(err, scenariostore.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("scenario %q not found", name))
		return nil, false
	}
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("Failed to read scenario.", "scenario", name, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(doc)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := scenariostore.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Publish(r.Context(), name, doc); err != nil {
		status := http.StatusInternalServerError
		if isDocumentError(err) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"scenario": name, "status": "published"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	err := s.Remove(r.Context(), name)
	if errors.Is(err, scenariostore.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("scenario %q not found", name))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.load(w, r)
	if !ok {
		return
	}
	sc, err := scenario.Parse(r.Context(), doc)
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("Stored scenario is invalid.", "scenario", r.PathValue("name"), "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	props := config.Empty()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) > 0 {
		if props, err = config.FromJSON(body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("props: %w", err))
			return
		}
	}

	q := r.URL.Query()
	out, err := s.engine.Render(r.Context(), render.Request{
		Scenario: sc,
		Fragment: q.Get("fragment"),
		Platform: q.Get("platform"),
		Format:   q.Get("format"),
		Props:    props,
		Page:     q.Get("page") == "true",
	})
	switch {
	case errors.Is(err, render.ErrUnknownPlatform), errors.Is(err, render.ErrUnknownFormat):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, render.ErrUnknownFragment):
		writeError(w, http.StatusNotFound, err)
		return
	case errors.Is(err, render.ErrEmpty):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", out.ContentType)
	_, _ = w.Write(out.Body)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(r.Context())
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed.", "error", err)
		return
	}
	defer conn.Close()

	events := s.hub.register(conn)
	defer s.hub.unregister(conn)
	logger.Debug("Live-reload client connected.", "remote", r.RemoteAddr, "clients", s.hub.count())

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			data, err := encodeEvent(evt)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func isDocumentError(err error) bool {
	var verr *scenario.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, component.ErrStructural) ||
		errors.Is(err, component.ErrCircularDependency)
}

package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/metrics"
	"github.com/vk/sduigo/internal/render"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "sduigo"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *prometheus.Registry
	metrics  *metrics.Prom
	engine   *render.Engine
}

// NewApp is the constructor for the main application. Command output goes to
// outW and logs to logW. Each App owns its logger and metrics registry.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewProm(MetricsNamespace, reg)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		metrics:  m,
		engine:   render.NewEngine(nil, m),
	}
}

// Registry returns the application's metrics registry. This is primarily for
// testing.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command, "path", a.config.Path)

	var err error
	switch a.config.Command {
	case CommandCompile:
		err = a.Compile(ctx)
	case CommandRender:
		err = a.Render(ctx)
	case CommandServe:
		err = a.Serve(ctx)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

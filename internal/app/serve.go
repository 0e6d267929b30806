package app

import (
	"context"
	"fmt"

	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/inmemorystore"
	"github.com/vk/sduigo/internal/redisstore"
	"github.com/vk/sduigo/internal/scenariostore"
	"github.com/vk/sduigo/internal/server"
	"github.com/vk/sduigo/internal/watcher"
	"golang.org/x/sync/errgroup"
)

// Serve compiles the authoring files under Path, publishes them and serves
// them over HTTP until ctx is cancelled. With Watch set, sources are
// recompiled and republished as they change.
func (a *App) Serve(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(store,
		server.WithLogger(a.logger),
		server.WithMetrics(a.metrics, a.registry),
		server.WithEngine(a.engine),
	)
	w := watcher.New([]string{a.config.Path}, srv.Publish,
		watcher.WithRemove(srv.Remove),
		watcher.WithMetrics(a.metrics),
	)

	if !a.config.Watch {
		if err := w.Sync(ctx); err != nil {
			return fmt.Errorf("failed to publish scenarios: %w", err)
		}
		return srv.Run(ctx, a.config.Listen)
	}

	logger.Info("Live reload enabled.", "path", a.config.Path)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx, a.config.Listen) })
	return g.Wait()
}

func (a *App) openStore() (scenariostore.Store, func(), error) {
	if a.config.RedisURL == "" {
		a.logger.Debug("Using in-memory scenario store.")
		return inmemorystore.New(), func() {}, nil
	}
	s, err := redisstore.New(a.config.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("Using Redis scenario store.")
	return s, func() {
		if err := s.Close(); err != nil {
			a.logger.Warn("Failed to close Redis store.", "error", err)
		}
	}, nil
}

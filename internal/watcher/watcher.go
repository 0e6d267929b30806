// Package watcher recompiles HCL authoring files when they change and
// publishes the resulting scenario documents.
package watcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/fsutil"
	"github.com/vk/sduigo/internal/hcl"
	"github.com/vk/sduigo/internal/metrics"
	"github.com/vk/sduigo/internal/scenariostore"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before recompiling.
const DefaultDebounce = 150 * time.Millisecond

// PublishFunc receives every compiled document whose bytes changed since the
// last publish.
type PublishFunc func(ctx context.Context, name string, doc []byte) error

// RemoveFunc receives every previously published scenario whose source is
// gone.
type RemoveFunc func(ctx context.Context, name string) error

// Watcher keeps published scenarios in sync with authoring files.
type Watcher struct {
	paths    []string
	loader   *hcl.Loader
	publish  PublishFunc
	remove   RemoveFunc
	metrics  metrics.Metrics
	debounce time.Duration

	last map[string][]byte
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithMetrics counts failed compilations in m.
func WithMetrics(m metrics.Metrics) Option {
	return func(w *Watcher) { w.metrics = m }
}

// WithRemove withdraws scenarios through fn once their source is deleted or
// renamed. Without it they are only forgotten.
func WithRemove(fn RemoveFunc) Option {
	return func(w *Watcher) { w.remove = fn }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher over paths, which may be files or directories.
func New(paths []string, publish PublishFunc, opts ...Option) *Watcher {
	w := &Watcher{
		paths:    paths,
		loader:   hcl.NewLoader(),
		publish:  publish,
		metrics:  metrics.Noop{},
		debounce: DefaultDebounce,
		last:     make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Sync loads every scenario under the watched paths and publishes the ones
// that changed. A document that fails to compile is counted and skipped;
// the others are still published. Scenarios published earlier whose source
// no longer defines them are removed. Sync is not safe for concurrent use.
func (w *Watcher) Sync(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	docs, err := w.loader.Load(ctx, w.paths...)
	if err != nil {
		w.metrics.IncCompileFailed()
		logger.Error("Failed to load authoring files.", "error", err)
		return err
	}

	var errs []error
	published := 0
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		seen[doc.Name] = true
		out, err := doc.Compile()
		if err != nil {
			w.metrics.IncCompileFailed()
			logger.Error("Failed to compile scenario.", "scenario", doc.Name, "source", doc.Source, "error", err)
			errs = append(errs, fmt.Errorf("compile %q: %w", doc.Name, err))
			continue
		}
		if bytes.Equal(w.last[doc.Name], out) {
			continue
		}
		if err := w.publish(ctx, doc.Name, out); err != nil {
			logger.Error("Failed to publish scenario.", "scenario", doc.Name, "error", err)
			errs = append(errs, fmt.Errorf("publish %q: %w", doc.Name, err))
			continue
		}
		w.last[doc.Name] = out
		published++
	}

	removed := 0
	for _, name := range slices.Sorted(maps.Keys(w.last)) {
		if seen[name] {
			continue
		}
		if w.remove != nil {
			err := w.remove(ctx, name)
			if err != nil && !errors.Is(err, scenariostore.ErrNotFound) {
				logger.Error("Failed to remove scenario.", "scenario", name, "error", err)
				errs = append(errs, fmt.Errorf("remove %q: %w", name, err))
				continue
			}
		}
		delete(w.last, name)
		removed++
	}
	logger.Info("Authoring files synced.", "scenarios", len(docs), "published", published,
		"removed", removed, "failed", len(errs))
	return errors.Join(errs...)
}

// Run syncs once, then again after every settled burst of changes to .hcl
// files, until ctx is cancelled. Errors from individual syncs are logged and
// do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsw.Close()

	dirs, err := fsutil.Dirs(w.paths)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return fmt.Errorf("nothing to watch in %v", w.paths)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logger.Info("Watching authoring files.", "dirs", len(dirs))

	_ = w.Sync(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fsw.Add(event.Name); err != nil {
						logger.Warn("Failed to watch new directory.", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("Authoring file changed.", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			_ = w.Sync(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), hcl.Extension) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

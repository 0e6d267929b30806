package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sduigo/internal/metrics"
	"github.com/vk/sduigo/internal/scenariostore"
)

const homeSrc = `
scenario "home" {
  version      = "1.0.0"
  build_number = %d

  column "root" {
    text "greeting" {
      properties = { text = "hello" }
    }
  }
}
`

const brokenSrc = `
scenario "broken" {
  row "root" {
    text {
      width = "wide"
    }
  }
}
`

type published struct {
	mu        sync.Mutex
	docs      map[string][]byte
	n         int
	err       error
	removed   []string
	removeErr error
}

func (p *published) remove(_ context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.removeErr != nil {
		return p.removeErr
	}
	p.removed = append(p.removed, name)
	delete(p.docs, name)
	return nil
}

func (p *published) removedNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.removed)
}

func (p *published) publish(_ context.Context, name string, doc []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.docs == nil {
		p.docs = map[string][]byte{}
	}
	p.docs[name] = doc
	p.n++
	return nil
}

func (p *published) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

func (p *published) get(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return string(p.docs[name])
}

type failures struct {
	metrics.Noop
	mu sync.Mutex
	n  int
}

func (f *failures) IncCompileFailed() {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func write(t *testing.T, path, src string, args ...any) {
	t.Helper()
	if len(args) > 0 {
		src = fmt.Sprintf(src, args...)
	}
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestSync_PublishesChangedDocuments(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "home.hcl"), homeSrc, 1)

	p := &published{}
	w := New([]string{dir}, p.publish)
	ctx := context.Background()

	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, 1, p.count())
	assert.Contains(t, p.get("home"), `"buildNumber":1`)

	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, 1, p.count(), "unchanged documents are not republished")

	write(t, filepath.Join(dir, "home.hcl"), homeSrc, 2)
	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, 2, p.count())
	assert.Contains(t, p.get("home"), `"buildNumber":2`)
}

func TestSync_CompileFailureKeepsOthers(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "home.hcl"), homeSrc, 1)
	write(t, filepath.Join(dir, "broken.hcl"), brokenSrc)

	p := &published{}
	m := &failures{}
	w := New([]string{dir}, p.publish, WithMetrics(m))

	err := w.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, 1, p.count())
	assert.NotEmpty(t, p.get("home"))
	assert.Equal(t, 1, m.n)
}

func TestSync_ParseErrorCounts(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "bad.hcl"), `scenario "x" {`)

	m := &failures{}
	w := New([]string{dir}, (&published{}).publish, WithMetrics(m))
	require.Error(t, w.Sync(context.Background()))
	assert.Equal(t, 1, m.n)
}

func TestSync_PublishErrorRetries(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "home.hcl"), homeSrc, 1)

	p := &published{err: errors.New("store down")}
	w := New([]string{dir}, p.publish)
	require.ErrorContains(t, w.Sync(context.Background()), "store down")

	p.mu.Lock()
	p.err = nil
	p.mu.Unlock()
	require.NoError(t, w.Sync(context.Background()))
	assert.Equal(t, 1, p.count())
}

func TestSync_RemovesDeletedScenarios(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "home.hcl"), homeSrc, 1)
	other := filepath.Join(dir, "other.hcl")
	write(t, other, `
scenario "other" {
  column "root" {
  }
}
`)

	p := &published{}
	w := New([]string{dir}, p.publish, WithRemove(p.remove))
	ctx := context.Background()

	require.NoError(t, w.Sync(ctx))
	require.Equal(t, 2, p.count())
	assert.Empty(t, p.removedNames())

	require.NoError(t, os.Remove(other))
	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, []string{"other"}, p.removedNames())
	assert.NotEmpty(t, p.get("home"))

	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, []string{"other"}, p.removedNames(), "a removed scenario is forgotten")

	write(t, other, `
scenario "other" {
  column "root" {
  }
}
`)
	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, 3, p.count(), "a restored scenario is published again")
}

func TestSync_RemovesRenamedScenario(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "home.hcl")
	write(t, file, homeSrc, 1)

	p := &published{}
	w := New([]string{dir}, p.publish, WithRemove(p.remove))
	ctx := context.Background()
	require.NoError(t, w.Sync(ctx))

	write(t, file, strings.Replace(homeSrc, `scenario "home"`, `scenario "landing"`, 1), 1)
	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, []string{"home"}, p.removedNames())
	assert.NotEmpty(t, p.get("landing"))
}

func TestSync_CompileFailureKeepsPublishedScenario(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "home.hcl")
	write(t, file, homeSrc, 1)

	p := &published{}
	w := New([]string{dir}, p.publish, WithRemove(p.remove))
	ctx := context.Background()
	require.NoError(t, w.Sync(ctx))

	write(t, file, `
scenario "home" {
  row "root" {
    text {
      width = "wide"
    }
  }
}
`)
	require.Error(t, w.Sync(ctx))
	assert.Empty(t, p.removedNames())
	assert.Contains(t, p.get("home"), `"buildNumber":1`)
}

func TestSync_RemoveErrorRetries(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "home.hcl")
	write(t, file, homeSrc, 1)

	p := &published{}
	w := New([]string{dir}, p.publish, WithRemove(p.remove))
	ctx := context.Background()
	require.NoError(t, w.Sync(ctx))
	require.NoError(t, os.Remove(file))

	p.mu.Lock()
	p.removeErr = errors.New("store down")
	p.mu.Unlock()
	require.ErrorContains(t, w.Sync(ctx), "store down")

	p.mu.Lock()
	p.removeErr = nil
	p.mu.Unlock()
	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, []string{"home"}, p.removedNames())
}

func TestSync_RemoveToleratesMissingScenario(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "home.hcl")
	write(t, file, homeSrc, 1)

	calls := 0
	remove := func(context.Context, string) error {
		calls++
		return fmt.Errorf("delete %q: %w", "home", scenariostore.ErrNotFound)
	}
	w := New([]string{dir}, (&published{}).publish, WithRemove(remove))
	ctx := context.Background()
	require.NoError(t, w.Sync(ctx))
	require.NoError(t, os.Remove(file))

	require.NoError(t, w.Sync(ctx))
	require.NoError(t, w.Sync(ctx))
	assert.Equal(t, 1, calls)
}

func TestRun_RecompilesOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "home.hcl")
	write(t, file, homeSrc, 1)

	p := &published{}
	w := New([]string{dir}, p.publish, WithRemove(p.remove), WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return p.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	write(t, file, homeSrc, 7)
	require.Eventually(t, func() bool { return p.count() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, p.get("home"), `"buildNumber":7`)

	sub := filepath.Join(dir, "more")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(50 * time.Millisecond)
	write(t, filepath.Join(sub, "other.hcl"), `
scenario "other" {
  column "root" {
  }
}
`)
	require.Eventually(t, func() bool { return p.get("other") != "" }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(file))
	require.Eventually(t, func() bool {
		return slices.Equal(p.removedNames(), []string{"home"})
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, p.get("home"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_NothingToWatch(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, (&published{}).publish)
	assert.Error(t, w.Run(context.Background()))
}

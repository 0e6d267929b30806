// Package storetest is the behaviour every scenariostore.Store must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sduigo/internal/scenariostore"
)

// Run exercises a store created fresh by newStore for every subtest.
func Run(t *testing.T, newStore func(t *testing.T) scenariostore.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, scenariostore.ErrNotFound)
	})

	t.Run("put get replace", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "home", []byte(`{"v":1}`)))
		got, err := s.Get(ctx, "home")
		require.NoError(t, err)
		assert.Equal(t, `{"v":1}`, string(got))

		require.NoError(t, s.Put(ctx, "home", []byte(`{"v":2}`)))
		got, err = s.Get(ctx, "home")
		require.NoError(t, err)
		assert.Equal(t, `{"v":2}`, string(got))

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"home"}, names)
	})

	t.Run("returned documents are copies", func(t *testing.T) {
		s := newStore(t)
		doc := []byte(`{"v":1}`)
		require.NoError(t, s.Put(ctx, "home", doc))
		doc[0] = 'x'

		got, err := s.Get(ctx, "home")
		require.NoError(t, err)
		got[1] = 'y'

		again, err := s.Get(ctx, "home")
		require.NoError(t, err)
		assert.Equal(t, `{"v":1}`, string(again))
	})

	t.Run("list sorted", func(t *testing.T) {
		s := newStore(t)
		for _, n := range []string{"zeta", "alpha", "mid"} {
			require.NoError(t, s.Put(ctx, n, []byte(`{}`)))
		}
		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
	})

	t.Run("list empty", func(t *testing.T) {
		names, err := newStore(t).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "home", []byte(`{}`)))
		require.NoError(t, s.Delete(ctx, "home"))
		_, err := s.Get(ctx, "home")
		assert.ErrorIs(t, err, scenariostore.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "home"), scenariostore.ErrNotFound)

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("invalid name", func(t *testing.T) {
		s := newStore(t)
		assert.Error(t, s.Put(ctx, "a/b", []byte(`{}`)))
	})

	t.Run("concurrent writers", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for i := range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				name := fmt.Sprintf("s%02d", i)
				assert.NoError(t, s.Put(ctx, name, []byte(`{}`)))
				_, err := s.Get(ctx, name)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, names, 16)
	})
}

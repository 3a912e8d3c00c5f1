package collection

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockhand/internal/domain"
)

const (
	waitFor = 2 * time.Second
	tick    = time.Millisecond
)

func newTestCache() *Cache {
	return NewCache(zerowrap.New(zerowrap.Config{Level: "error"}))
}

func countingFetch(calls *atomic.Int32, list ...domain.Resource) FetchFunc {
	return func(context.Context) ([]domain.Resource, error) {
		calls.Add(1)
		return list, nil
	}
}

func TestCache_ExpandCollapseExpandFetchesOnce(t *testing.T) {
	c := newTestCache()
	scope := domain.OwnerScope("u1")
	var calls atomic.Int32
	fetch := countingFetch(&calls, domain.Resource{ID: "a"}, domain.Resource{ID: "b"})

	list, err := c.Expand(context.Background(), scope, fetch)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.True(t, c.Expanded(scope))

	c.Collapse(scope)
	assert.False(t, c.Expanded(scope))

	list, err = c.Expand(context.Background(), scope, fetch)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.EqualValues(t, 1, calls.Load())
}

func TestCache_ReloadAlwaysFetches(t *testing.T) {
	c := newTestCache()
	scope := domain.OwnerScope("u1")
	var calls atomic.Int32

	_, err := c.Expand(context.Background(), scope, countingFetch(&calls, domain.Resource{ID: "a"}))
	require.NoError(t, err)

	list, err := c.Reload(context.Background(), scope, countingFetch(&calls, domain.Resource{ID: "a"}, domain.Resource{ID: "c"}))
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.EqualValues(t, 2, calls.Load())

	cached, ok := c.Get(scope)
	require.True(t, ok)
	assert.Equal(t, "c", cached[1].ID)
}

func TestCache_ReloadDoesNotJoinInFlightFetch(t *testing.T) {
	c := newTestCache()
	scope := domain.OwnerScope("u1")
	var calls atomic.Int32
	var backend atomic.Pointer[[]domain.Resource]
	before := []domain.Resource{{ID: "a"}}
	backend.Store(&before)

	entered := make(chan struct{})
	release := make(chan struct{})
	blocking := func(context.Context) ([]domain.Resource, error) {
		calls.Add(1)
		list := *backend.Load()
		close(entered)
		<-release
		return list, nil
	}
	current := func(context.Context) ([]domain.Resource, error) {
		calls.Add(1)
		return *backend.Load(), nil
	}

	firstDone := make(chan []domain.Resource, 1)
	go func() {
		list, err := c.Reload(context.Background(), scope, blocking)
		assert.NoError(t, err)
		firstDone <- list
	}()
	<-entered

	after := []domain.Resource{{ID: "a"}, {ID: "b"}}
	backend.Store(&after)

	list, err := c.Reload(context.Background(), scope, current)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.EqualValues(t, 2, calls.Load())

	cached, ok := c.Get(scope)
	require.True(t, ok)
	assert.Len(t, cached, 2)

	close(release)
	select {
	case stale := <-firstDone:
		assert.Len(t, stale, 1)
	case <-time.After(waitFor):
		t.Fatal("first reload did not return")
	}

	cached, ok = c.Get(scope)
	require.True(t, ok)
	assert.Len(t, cached, 2, "a late stale fetch must not overwrite a newer list")
}

func TestCache_FetchErrorIsNotCached(t *testing.T) {
	c := newTestCache()
	scope := domain.OwnerScope("u1")
	boom := errors.New("boom")

	_, err := c.Expand(context.Background(), scope, func(context.Context) ([]domain.Resource, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, c.NeedsFetch(scope))

	_, ok := c.Get(scope)
	assert.False(t, ok)
}

func TestCache_ReturnsCopies(t *testing.T) {
	c := newTestCache()
	scope := domain.OwnerScope("u1")
	c.Set(scope, []domain.Resource{{ID: "a", Name: "web"}})

	got, _ := c.Get(scope)
	got[0].Name = "mutated"

	again, _ := c.Get(scope)
	assert.Equal(t, "web", again[0].Name)
}

func TestCache_InvalidateAndEmptyLists(t *testing.T) {
	c := newTestCache()
	scope := domain.OwnerScope("u1")
	var calls atomic.Int32

	list, err := c.Expand(context.Background(), scope, countingFetch(&calls))
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.False(t, c.NeedsFetch(scope), "an empty list is still cached")

	c.Invalidate(scope)
	assert.True(t, c.NeedsFetch(scope))
	assert.True(t, c.Expanded(scope), "invalidation keeps expansion state")

	c.InvalidateAll()
	assert.False(t, c.Expanded(scope))
}

func TestCache_ConcurrentExpandSharesFetch(t *testing.T) {
	c := newTestCache()
	scope := domain.OwnerScope("u1")
	var calls atomic.Int32
	release := make(chan struct{})

	fetch := func(context.Context) ([]domain.Resource, error) {
		calls.Add(1)
		<-release
		return []domain.Resource{{ID: "a"}}, nil
	}

	var wg sync.WaitGroup
	started := make(chan struct{}, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started <- struct{}{}
			list, err := c.Expand(context.Background(), scope, fetch)
			assert.NoError(t, err)
			assert.Len(t, list, 1)
		}()
	}
	for i := 0; i < 8; i++ {
		<-started
	}
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, waitFor, tick)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(8))
	cached, ok := c.Get(scope)
	require.True(t, ok)
	assert.Len(t, cached, 1)
}

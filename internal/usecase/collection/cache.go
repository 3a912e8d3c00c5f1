// Package collection caches container lists per scope and applies the lazy
// expansion policy of nested rows.
package collection

import (
	"context"
	"sync"

	"github.com/bnema/zerowrap"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/dockhand/internal/domain"
)

// FetchFunc loads the resources of one scope from the backend.
type FetchFunc func(ctx context.Context) ([]domain.Resource, error)

// Cache holds one resource list per domain.ScopeKey plus the expansion state of
// each scope. A scope is fetched on first expansion and served from memory
// afterwards until it is reloaded or invalidated.
type Cache struct {
	mu       sync.RWMutex
	entries  map[domain.ScopeKey][]domain.Resource
	expanded map[domain.ScopeKey]bool
	// gen counts writes per scope; a fetch only stores when no newer
	// write or fetch started after it.
	gen      map[domain.ScopeKey]uint64
	group    singleflight.Group
	log      zerowrap.Logger
}

// NewCache creates an empty cache.
func NewCache(log zerowrap.Logger) *Cache {
	return &Cache{
		entries:  make(map[domain.ScopeKey][]domain.Resource),
		expanded: make(map[domain.ScopeKey]bool),
		gen:      make(map[domain.ScopeKey]uint64),
		log:      log,
	}
}

// Get returns a copy of the cached list.
func (c *Cache) Get(scope domain.ScopeKey) ([]domain.Resource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list, ok := c.entries[scope]
	if !ok {
		return nil, false
	}
	return clone(list), true
}

// Set replaces the cached list.
func (c *Cache) Set(scope domain.ScopeKey, list []domain.Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen[scope]++
	c.entries[scope] = clone(list)
}

// Invalidate drops the cached list; the next Expand fetches again.
func (c *Cache) Invalidate(scope domain.ScopeKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen[scope]++
	delete(c.entries, scope)
}

// InvalidateAll drops every list and expansion state.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[domain.ScopeKey][]domain.Resource)
	c.expanded = make(map[domain.ScopeKey]bool)
	for scope := range c.gen {
		c.gen[scope]++
	}
}

// Expand marks scope expanded and returns its list, fetching it only when it
// is not cached. Concurrent expansions of one scope share a single fetch.
func (c *Cache) Expand(ctx context.Context, scope domain.ScopeKey, fetch FetchFunc) ([]domain.Resource, error) {
	c.mu.Lock()
	c.expanded[scope] = true
	list, ok := c.entries[scope]
	c.mu.Unlock()

	if ok {
		return clone(list), nil
	}
	return c.load(ctx, scope, fetch)
}

// Collapse marks scope collapsed. Cached data is kept.
func (c *Cache) Collapse(scope domain.ScopeKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.expanded, scope)
}

// Expanded reports whether scope is expanded.
func (c *Cache) Expanded(scope domain.ScopeKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.expanded[scope]
}

// NeedsFetch reports whether expanding scope would hit the backend.
func (c *Cache) NeedsFetch(scope domain.ScopeKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[scope]
	return !ok
}

// Reload fetches scope unconditionally and replaces the cached list.
// It never joins a fetch already in flight, whose result may predate the
// caller's mutation.
func (c *Cache) Reload(ctx context.Context, scope domain.ScopeKey, fetch FetchFunc) ([]domain.Resource, error) {
	c.group.Forget(scope.String())
	return c.load(ctx, scope, fetch)
}

func (c *Cache) load(ctx context.Context, scope domain.ScopeKey, fetch FetchFunc) ([]domain.Resource, error) {
	v, err, shared := c.group.Do(scope.String(), func() (any, error) {
		gen := c.begin(scope)
		list, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(scope, gen, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}

	list := v.([]domain.Resource)
	c.log.Debug().
		Str(zerowrap.FieldLayer, "usecase").
		Str(zerowrap.FieldComponent, "collection").
		Str("scope", scope.String()).
		Int(zerowrap.FieldCount, len(list)).
		Bool("shared", shared).
		Msg("collection loaded")
	return clone(list), nil
}

func (c *Cache) begin(scope domain.ScopeKey) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen[scope]++
	return c.gen[scope]
}

// store keeps list unless a newer fetch or write superseded it.
func (c *Cache) store(scope domain.ScopeKey, gen uint64, list []domain.Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen[scope] != gen {
		return
	}
	c.entries[scope] = clone(list)
}

func clone(list []domain.Resource) []domain.Resource {
	if list == nil {
		return []domain.Resource{}
	}
	out := make([]domain.Resource, len(list))
	copy(out, list)
	return out
}

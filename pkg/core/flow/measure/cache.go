package measure

import (
	"container/list"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/matzehuels/adaptiveflow/pkg/cache"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
)

// Cache memoizes boundaries by content key. Writes are idempotent: a key
// always maps to the same boundary, so concurrent writers never conflict.
// A cache may drop entries at any time; callers recompute on a miss.
type Cache interface {
	Get(key string) (boundary.Boundary, bool)
	Set(key string, b boundary.Boundary)
}

// None is a Cache that stores nothing.
type None struct{}

func (None) Get(string) (boundary.Boundary, bool) { return boundary.Boundary{}, false }
func (None) Set(string, boundary.Boundary)        {}

// LRU is a capacity-bounded in-memory Cache that evicts the least recently
// used entry once full.
type LRU struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
	evicted  int
}

type lruEntry struct {
	key string
	b   boundary.Boundary
}

// DefaultCapacity is the LRU size used when none is configured.
const DefaultCapacity = 4096

// NewLRU returns an empty LRU holding at most capacity entries. A
// non-positive capacity selects DefaultCapacity.
func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached boundary and marks it recently used.
func (c *LRU) Get(key string) (boundary.Boundary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return boundary.Boundary{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry).b, true
}

// Set stores b, evicting the least recently used entry when over capacity.
func (c *LRU) Set(key string, b boundary.Boundary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).b = b
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&lruEntry{key: key, b: b})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*lruEntry).key)
		c.evicted++
	}
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Evicted returns how many entries were dropped for capacity.
func (c *LRU) Evicted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evicted
}

// StoreCache adapts a byte [cache.Cache] (file, redis, memory) into a
// boundary Cache. Backend errors count as misses.
type StoreCache struct {
	ctx   context.Context
	store cache.Cache
	ttl   time.Duration
}

// NewStoreCache wraps store. ctx bounds every backend call.
func NewStoreCache(ctx context.Context, store cache.Cache, ttl time.Duration) *StoreCache {
	return &StoreCache{ctx: ctx, store: store, ttl: ttl}
}

const keyTypeBoundary = "boundary"

// Get reads and decodes a boundary from the backend.
func (c *StoreCache) Get(key string) (boundary.Boundary, bool) {
	data, hit, err := c.store.Get(c.ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(c.ctx, keyTypeBoundary)
		return boundary.Boundary{}, false
	}
	var b boundary.Boundary
	if err := json.Unmarshal(data, &b); err != nil || !b.Valid() {
		observability.Cache().OnCacheMiss(c.ctx, keyTypeBoundary)
		return boundary.Boundary{}, false
	}
	observability.Cache().OnCacheHit(c.ctx, keyTypeBoundary)
	return b, true
}

// Set encodes and writes a boundary to the backend.
func (c *StoreCache) Set(key string, b boundary.Boundary) {
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	if err := c.store.Set(c.ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(c.ctx, keyTypeBoundary, len(data))
	}
}

type tiered struct {
	front, back Cache
}

// Tiered layers a fast front cache over a slower back cache. Back hits are
// promoted to the front; writes go to both.
func Tiered(front, back Cache) Cache {
	return tiered{front: front, back: back}
}

func (t tiered) Get(key string) (boundary.Boundary, bool) {
	if b, ok := t.front.Get(key); ok {
		return b, true
	}
	b, ok := t.back.Get(key)
	if ok {
		t.front.Set(key, b)
	}
	return b, ok
}

func (t tiered) Set(key string, b boundary.Boundary) {
	t.front.Set(key, b)
	t.back.Set(key, b)
}

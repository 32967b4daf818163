package forge

import (
	"container/list"
	"sync"
)

// DefaultCacheCapacity is the entry limit used when a Generator is built
// without an explicit cache.
const DefaultCacheCapacity = 50

// CacheStats holds cache counters for diagnostics. The counters never drive
// behavior.
type CacheStats struct {
	Size      int
	Capacity  int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Cache is a fixed-capacity LRU store of generation results keyed by
// canonical request keys. Keys are matched exactly; normalization is the
// caller's responsibility. The cache holds no opinion about what a valid
// result is.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	eviction *list.List
	stats    CacheStats
}

type cacheEntry struct {
	key   string
	value Result
}

// NewCache creates a cache holding at most capacity entries. Non-positive
// capacities fall back to DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get retrieves a result and promotes it to most-recently-used.
func (c *Cache) Get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return Result{}, false
	}

	c.eviction.MoveToFront(elem)
	c.stats.Hits++
	return elem.Value.(*cacheEntry).value, true
}

// Put stores a result under key, evicting the least-recently-used entry when
// the cache is full. Storing an existing key replaces its value and promotes
// it.
func (c *Cache) Put(key string, value Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	if c.eviction.Len() >= c.capacity {
		c.evictOldest()
	}

	c.items[key] = c.eviction.PushFront(&cacheEntry{key: key, value: value})
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.eviction.Len()
	stats.Capacity = c.capacity
	return stats
}

// evictOldest removes the least recently used entry. Caller holds the lock.
func (c *Cache) evictOldest() {
	elem := c.eviction.Back()
	if elem == nil {
		return
	}
	c.eviction.Remove(elem)
	delete(c.items, elem.Value.(*cacheEntry).key)
	c.stats.Evictions++
}

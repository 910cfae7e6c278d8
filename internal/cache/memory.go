package cache

import (
	"container/list"
	"sync"
	"time"
)

type memoryEntry struct {
	key   string
	entry Entry
}

// MemoryCache is a fixed-capacity, least-recently-used cache. No corpus
// dependency provides a bounded LRU with per-entry TTL over arbitrary
// string values (patrickmn/go-cache is TTL-only with no size bound), so
// this tier is a small hand-rolled container/list-backed implementation.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

// NewMemoryCache creates a MemoryCache bounded to capacity entries.
// A non-positive capacity disables eviction entirely.
func NewMemoryCache(capacity int) *MemoryCache {
	return &MemoryCache{
		capacity: capacity,
		items:    map[string]*list.Element{},
		order:    list.New(),
	}
}

// Get returns the value for key if present and not expired, promoting it
// to most-recently-used.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return "", false
	}
	me := elem.Value.(*memoryEntry)
	if me.entry.expired(time.Now()) {
		c.order.Remove(elem)
		delete(c.items, key)
		return "", false
	}
	c.order.MoveToFront(elem)
	return me.entry.Value, true
}

// Set stores value under key with the given ttl, evicting the
// least-recently-used entry if the cache is at capacity.
func (c *MemoryCache) Set(key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Entry{Value: value, InsertedAt: time.Now(), TTL: ttl}
	if elem, ok := c.items[key]; ok {
		elem.Value.(*memoryEntry).entry = entry
		c.order.MoveToFront(elem)
		return nil
	}

	elem := c.order.PushFront(&memoryEntry{key: key, entry: entry})
	c.items[key] = elem

	if c.capacity > 0 {
		for c.order.Len() > c.capacity {
			oldest := c.order.Back()
			if oldest == nil {
				break
			}
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*memoryEntry).key)
		}
	}
	return nil
}

// Invalidate removes key from the cache if present.
func (c *MemoryCache) Invalidate(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
	return nil
}

// Clear removes every entry from the cache.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]*list.Element{}
	c.order.Init()
	return nil
}

var _ Store = (*MemoryCache)(nil)

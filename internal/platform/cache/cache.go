// Package cache provides a small in-memory page cache with TTL and LRU
// eviction. The transport consults it so sibling records sharing a website
// do not re-fetch the same URL within a run. Nothing is ever persisted.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry struct {
	key       string
	body      string
	expiresAt time.Time
	element   *list.Element
}

// PageCache maps URL -> fetched body. Safe for concurrent use.
type PageCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	lru      *list.List
}

// New creates a page cache. capacity <= 0 falls back to 256 entries;
// ttl <= 0 means entries never expire.
func New(capacity int, ttl time.Duration) *PageCache {
	if capacity <= 0 {
		capacity = 256
	}
	return &PageCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry),
		lru:      list.New(),
	}
}

// Get returns the cached body for url, marking it recently used.
func (c *PageCache) Get(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[url]
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.remove(e)
		return "", false
	}
	c.lru.MoveToFront(e.element)
	return e.body, true
}

// Set stores a body for url, evicting the least recently used entry when
// the cache is full.
func (c *PageCache) Set(url, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	if e, ok := c.items[url]; ok {
		e.body = body
		e.expiresAt = expiresAt
		c.lru.MoveToFront(e.element)
		return
	}

	if len(c.items) >= c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest.Value.(*entry))
		}
	}

	e := &entry{key: url, body: body, expiresAt: expiresAt}
	e.element = c.lru.PushFront(e)
	c.items[url] = e
}

// Size returns the current number of cached pages.
func (c *PageCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear drops every cached page.
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry)
	c.lru.Init()
}

// remove must be called with c.mu held.
func (c *PageCache) remove(e *entry) {
	c.lru.Remove(e.element)
	delete(c.items, e.key)
}

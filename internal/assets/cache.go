package assets

import (
	"sync"

	"github.com/Faultbox/plush-configurator/internal/engine/scene"
)

// Cache holds decoded model templates keyed by path. Concurrent requests for
// the same path decode it once; instances are cloned from the template.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry

	// Stats
	hits   int
	misses int
}

type cacheEntry struct {
	once sync.Once
	node *scene.Node
	err  error
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
	}
}

// GetOrDecode returns the template for path, decoding it on first use.
// A failed decode is remembered; Clear drops it.
func (c *Cache) GetOrDecode(path string, decode DecodeFunc) (*scene.Node, error) {
	c.mu.Lock()
	e, ok := c.entries[path]
	if ok {
		c.hits++
	} else {
		c.misses++
		e = &cacheEntry{}
		c.entries[path] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.node, e.err = decode(path)
	})
	return e.node, e.err
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

package importer

import (
	"sync"

	"github.com/seuros/gopher-sass/src/scss"
)

// DocumentCache stores parsed stylesheets keyed by canonical path.
// Thread-safe with RWMutex and FIFO eviction.
type DocumentCache struct {
	mu      sync.RWMutex
	cache   map[string]*scss.Document
	order   []string // FIFO insertion order
	maxSize int
}

// NewDocumentCache creates a cache holding at most maxSize documents.
// A non-positive size falls back to 1000.
func NewDocumentCache(maxSize int) *DocumentCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &DocumentCache{
		cache:   make(map[string]*scss.Document),
		order:   make([]string, 0),
		maxSize: maxSize,
	}
}

// Fetch retrieves the cached document or builds and stores it using fn.
// Failed builds are not cached.
func (c *DocumentCache) Fetch(key string, fn func() (*scss.Document, error)) (*scss.Document, error) {
	// Fast path: check if key exists with read lock
	c.mu.RLock()
	if doc, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return doc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check after acquiring write lock
	if doc, ok := c.cache[key]; ok {
		return doc, nil
	}

	doc, err := fn()
	if err != nil {
		return nil, err
	}

	if len(c.cache) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
	}

	c.cache[key] = doc
	c.order = append(c.order, key)
	return doc, nil
}

// Forget drops the document stored under key, if any.
func (c *DocumentCache) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache[key]; !ok {
		return
	}
	delete(c.cache, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

package icons

import "sync"

// ContentCache holds encoded icon content for the lifetime of one build.
// A new cache is created with every Matcher so rebuilds never see stale
// content.
type ContentCache struct {
	mu      sync.Mutex
	content map[string]string
	hits    int
	misses  int
}

// NewContentCache creates an empty cache.
func NewContentCache() *ContentCache {
	return &ContentCache{content: make(map[string]string)}
}

// Get returns the cached content for identifier.
func (c *ContentCache) Get(identifier string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.content[identifier]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Put stores content for identifier.
func (c *ContentCache) Put(identifier, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content[identifier] = content
}

// Len returns the number of cached identifiers.
func (c *ContentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.content)
}

// Stats returns cache hit and miss counts.
func (c *ContentCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

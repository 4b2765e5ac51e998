package cache

import (
	"sync"

	"github.com/pictoseq/engine/pkg/core"
)

// LetterCache maps beat shape keys to their classified letters for the
// current editing session.
type LetterCache struct {
	mu      sync.RWMutex
	letters map[string]core.Letter
}

// NewLetterCache creates a new LetterCache
func NewLetterCache() *LetterCache {
	return &LetterCache{
		letters: make(map[string]core.Letter),
	}
}

// Get retrieves a letter by shape key
func (c *LetterCache) Get(shape string) (core.Letter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.letters[shape]
	return l, ok
}

// Set stores a letter by shape key
func (c *LetterCache) Set(shape string, l core.Letter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.letters[shape] = l
}

// Delete removes a shape key
func (c *LetterCache) Delete(shape string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.letters, shape)
}

// Len returns the number of cached classifications
func (c *LetterCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.letters)
}

// Reset clears all letters from the cache
func (c *LetterCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.letters = make(map[string]core.Letter)
}

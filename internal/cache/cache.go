package cache

import (
	"fmt"
	"sync"

	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/pkg/core"
)

// AnchorCache memoizes resolved render anchors. Anchor resolution runs
// on every repaint, so repeat lookups must not touch the tables again.
// The whole cache is dropped whenever the override store changes.
type AnchorCache struct {
	mu      sync.RWMutex
	anchors map[string]core.Location
}

func NewAnchorCache() *AnchorCache {
	return &AnchorCache{
		anchors: make(map[string]core.Location),
	}
}

// AnchorKey identifies one resolution: the override bucket, the color
// and the motion's raw endpoints.
func AnchorKey(k overrides.Key, color core.Color, m core.MotionAttributes) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%s|%s",
		k.GridMode, k.OriKey, k.Letter, k.TurnsTuple,
		color, m.MotionType, m.StartLoc, m.EndLoc, m.PropRotDir)
}

func (c *AnchorCache) Get(key string) (core.Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.anchors[key]
	return loc, ok
}

func (c *AnchorCache) Set(key string, loc core.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchors[key] = loc
}

// Reset clears every cached anchor. Called after any override mutation.
func (c *AnchorCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchors = make(map[string]core.Location)
}

// Len reports the cached entry count, for monitoring.
func (c *AnchorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.anchors)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}

func (c *SafeCounter) Add(n int) {
	c.mu.Lock()
	c.v += n
	c.mu.Unlock()
}

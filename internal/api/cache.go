package api

import (
	"os"
	"strconv"
	"sync"

	"github.com/charapi/charapi/pkg/evaluate"
)

// ResultCache is a thread-safe LRU cache for completed evaluations,
// keyed by normalized EIN.
type ResultCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	result *evaluate.EvaluationResult
}

// NewResultCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 100.
func NewResultCache(maxSize int) *ResultCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &ResultCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// NewResultCacheFromEnv creates a cache with size from the
// RESULT_CACHE_SIZE env var.
func NewResultCacheFromEnv() *ResultCache {
	size := 100
	if v := os.Getenv("RESULT_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewResultCache(size)
}

// Get retrieves an evaluation from the cache, or nil if not found.
func (c *ResultCache) Get(ein string) *evaluate.EvaluationResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[ein]
	if !ok {
		return nil
	}

	// Move to end (most recently used)
	c.moveToEnd(ein)
	return entry.result
}

// Put adds an evaluation to the cache, evicting the oldest if full.
func (c *ResultCache) Put(ein string, result *evaluate.EvaluationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[ein]; ok {
		c.entries[ein] = &cacheEntry{result: result}
		c.moveToEnd(ein)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[ein] = &cacheEntry{result: result}
	c.order = append(c.order, ein)
}

func (c *ResultCache) moveToEnd(ein string) {
	for i, k := range c.order {
		if k == ein {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, ein)
			return
		}
	}
}

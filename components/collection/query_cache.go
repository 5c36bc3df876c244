package collection

import (
	"sync"
	"time"
)

// ComposeCache memoizes composed views so the composer is not re-run more
// often than its inputs change. Keys combine the store generation with the
// criteria hash (see CriteriaKey), so any reload or criteria change misses.
type ComposeCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedView
}

type cachedView struct {
	records []Record
	expires time.Time
}

// NewComposeCache builds a cache with the provided TTL.
func NewComposeCache(ttl time.Duration) *ComposeCache {
	return &ComposeCache{
		ttl:     ttl,
		entries: make(map[string]cachedView),
	}
}

// GetOrCompose returns a cached view or computes/stores a new one.
func (c *ComposeCache) GetOrCompose(key string, compose func() []Record) []Record {
	if records, ok := c.get(key); ok {
		return records
	}
	records := compose()
	c.set(key, records)
	return records
}

func (c *ComposeCache) get(key string) ([]Record, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return nil, false
	}
	out := make([]Record, len(entry.records))
	copy(out, entry.records)
	return out, true
}

func (c *ComposeCache) set(key string, records []Record) {
	if c == nil || c.ttl <= 0 {
		return
	}
	stored := make([]Record, len(records))
	copy(stored, records)
	c.mu.Lock()
	c.entries[key] = cachedView{
		records: stored,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Invalidate drops every cached view.
func (c *ComposeCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cachedView)
	c.mu.Unlock()
}

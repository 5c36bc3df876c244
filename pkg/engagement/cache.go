package engagement

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/goliatone/go-collection/components/collection"
)

// RenderCache memoizes rendered chart HTML. Implementations derive their own
// key from the chart variant and the records' engagement counters, so a
// counter change after a confirmed action misses naturally while an unchanged
// collection keeps serving the cached markup.
type RenderCache interface {
	GetOrRender(variant string, records []collection.Record, render func() (string, error)) (string, error)
}

// Cache is an in-memory RenderCache whose entries expire after a fixed TTL.
// A zero or negative TTL disables caching entirely: every call renders.
type Cache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[uint64]renderEntry
}

type renderEntry struct {
	html    string
	expires time.Time
}

// NewCache builds a cache with the provided TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[uint64]renderEntry)}
}

// GetOrRender returns the cached HTML for the variant and counter state, or
// renders and stores it. Expired entries are swept on store so a long-lived
// cache does not accumulate fingerprints of collections that moved on.
func (c *Cache) GetOrRender(variant string, records []collection.Record, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	key := counterFingerprint(variant, records)
	now := time.Now()

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if ok && now.Before(entry.expires) {
		return entry.html, nil
	}

	html, err := render()
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = renderEntry{html: html, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return html, nil
}

// counterFingerprint digests the variant plus each record's id and the
// counters the charts actually plot. Record order matters: the x axis does.
func counterFingerprint(variant string, records []collection.Record) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|", variant)
	for _, rec := range records {
		fmt.Fprintf(h, "%s:%d:%d:%d;", rec.ID, rec.Counters.Downloads, rec.Counters.Favorites, rec.Counters.Clicks)
	}
	return h.Sum64()
}

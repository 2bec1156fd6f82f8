package enhance

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached enhancement result stays valid.
const DefaultCacheTTL = time.Hour

// cacheEntry pairs a result with the time it was stored.
type cacheEntry struct {
	result   *Result
	storedAt time.Time
}

// Cache maps draft fingerprints to previously retrieved enhancement results
// with a time-based expiry. It is in-memory only and scoped to the process;
// losing it simply causes a miss on next use. Safe for concurrent use by
// multiple sessions: results for identical input are interchangeable, so
// concurrent Put for the same fingerprint is last-write-wins.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[Fingerprint]cacheEntry
}

// NewCache creates a cache with the given TTL. A non-positive TTL falls back
// to DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[Fingerprint]cacheEntry),
	}
}

// Get returns the cached result for fp, or nil if no entry exists or the
// stored entry's age exceeds the TTL. Expired entries are evicted on lookup.
func (c *Cache) Get(fp Fingerprint) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fp]
	if !ok {
		return nil
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, fp)
		return nil
	}
	return e.result
}

// Put stores or overwrites an entry with the current timestamp.
func (c *Cache) Put(fp Fingerprint, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[fp] = cacheEntry{result: result, storedAt: c.now()}
}

// Delete drops a single entry, if present. Used by force-refresh flows.
func (c *Cache) Delete(fp Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, fp)
}

// PurgeExpired sweeps all entries, evicting expired ones, and returns the
// eviction count. Memory hygiene only; Get already self-heals.
func (c *Cache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	purged := 0
	for fp, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, fp)
			purged++
		}
	}
	return purged
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Fingerprint]cacheEntry)
}

// Len returns the number of entries currently stored, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

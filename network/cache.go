package network

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is the lifetime of entries without explicit freshness
// information.
const DefaultCacheTTL = 5 * time.Minute

// CacheEntry is a cached response with its freshness information.
type CacheEntry struct {
	Response  *Response
	ETag      string
	MaxAge    time.Duration
	HasMaxAge bool
	Expires   time.Time
	CachedAt  time.Time
}

// IsExpired reports whether the entry is stale. An explicit max-age,
// including zero, wins over Expires.
func (e *CacheEntry) IsExpired() bool {
	if e.HasMaxAge {
		return time.Since(e.CachedAt) >= e.MaxAge
	}
	if !e.Expires.IsZero() {
		return time.Now().After(e.Expires)
	}
	return time.Since(e.CachedAt) > DefaultCacheTTL
}

// Cache is an in-memory response cache keyed by URL. When full, the oldest
// entry is evicted.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewCache creates a cache holding at most maxSize entries.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Cache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the entry for url, stale or not.
func (c *Cache) Get(url string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[url]
	return entry, ok
}

// Set stores resp under url unless headers forbid storing it.
func (c *Cache) Set(url string, resp *Response, headers http.Header) {
	directives := cacheDirectives(headers.Get("Cache-Control"))
	if _, ok := directives["no-store"]; ok {
		return
	}

	entry := &CacheEntry{
		Response: resp,
		ETag:     headers.Get("ETag"),
		CachedAt: time.Now(),
	}
	if v, ok := directives["max-age"]; ok {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			entry.MaxAge = time.Duration(seconds) * time.Second
			entry.HasMaxAge = true
		}
	}
	if _, ok := directives["no-cache"]; ok {
		entry.MaxAge, entry.HasMaxAge = 0, true
	}
	if !entry.HasMaxAge {
		if expires := headers.Get("Expires"); expires != "" {
			if t, err := http.ParseTime(expires); err == nil {
				entry.Expires = t
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[url]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[url] = entry
}

// Delete removes the entry for url.
func (c *Cache) Delete(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CacheEntry)
}

// Size returns the number of entries.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for url, entry := range c.entries {
		if entry.IsExpired() {
			delete(c.entries, url)
		}
	}
}

// evictOldest must be called with c.mu held.
func (c *Cache) evictOldest() {
	var oldestURL string
	var oldest time.Time
	for url, entry := range c.entries {
		if oldestURL == "" || entry.CachedAt.Before(oldest) {
			oldestURL, oldest = url, entry.CachedAt
		}
	}
	if oldestURL != "" {
		delete(c.entries, oldestURL)
	}
}

// cacheDirectives parses a Cache-Control value into lowercased directive
// names and their (possibly empty) values.
func cacheDirectives(value string) map[string]string {
	directives := make(map[string]string)
	for _, d := range strings.Split(value, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, arg := d, ""
		if i := strings.IndexByte(d, '='); i >= 0 {
			name, arg = d[:i], strings.Trim(strings.TrimSpace(d[i+1:]), `"`)
		}
		directives[strings.ToLower(strings.TrimSpace(name))] = arg
	}
	return directives
}

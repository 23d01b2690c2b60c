package api

import (
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-proformas/internal/models"
)

// SearchCache keeps client-search results for a TTL so typing the same
// prefix twice doesn't hit the backend again. A TTL <= 0 disables it.
type SearchCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	clients   []models.Client
	expiresAt time.Time
}

// NewSearchCache creates a cache whose entries live for ttl.
func NewSearchCache(ttl time.Duration) *SearchCache {
	return &SearchCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Get returns the cached result for name if present and fresh.
func (c *SearchCache) Get(name string) ([]models.Client, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(name)]
	c.mu.RUnlock()

	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return append([]models.Client(nil), entry.clients...), true
}

// Put stores a result for name.
func (c *SearchCache) Put(name string, clients []models.Client) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[cacheKey(name)] = &cacheEntry{
		clients:   append([]models.Client(nil), clients...),
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// InvalidateAll clears every entry. Call it after a client is created.
func (c *SearchCache) InvalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

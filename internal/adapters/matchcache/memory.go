package matchcache

import (
	"context"
	"sync"
	"time"

	"github.com/djelite/matchengine/internal/domain/model"
)

const janitorInterval = time.Minute

type entry struct {
	scores    []model.MatchScore
	expiresAt time.Time
}

// MemoryCache is a process-local Cache backed by a mutex-guarded map.
// Expiry is checked on read; a background janitor reclaims memory from
// entries nobody reads again.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates a memory cache and starts its janitor.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.janitor()
	return c
}

// Get returns the ranked list for key if present and not yet expired.
// An entry read at exactly its expiry time counts as stale.
func (c *MemoryCache) Get(_ context.Context, key string) ([]model.MatchScore, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.scores, true
}

// Put stores scores under key with expiry now + ttl. A non-positive ttl
// falls back to DefaultTTL.
func (c *MemoryCache) Put(_ context.Context, key string, scores []model.MatchScore, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	c.entries[key] = entry{scores: scores, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate removes all entries scoped to requesterID, or everything when
// requesterID is empty.
func (c *MemoryCache) Invalidate(_ context.Context, requesterID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if requesterID == "" {
		c.entries = make(map[string]entry)
		return
	}
	for key := range c.entries {
		if scopedTo(key, requesterID) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of live entries, counting stale ones the janitor
// has not collected yet.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the janitor. The cache remains usable after Close.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *MemoryCache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *MemoryCache) sweep() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

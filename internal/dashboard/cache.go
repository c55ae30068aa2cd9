package dashboard

import (
	"context"
	"sync"
	"time"

	"tourism-portal/events-portal-backend/internal/workflow"
)

// SnapshotCache memoizes computed counter payloads for a short window so
// dashboard polling does not rescan the event collection on every request.
type SnapshotCache struct {
	data    map[string]*cacheEntry
	ttl     time.Duration
	mu      sync.RWMutex
	cleanup *time.Ticker
	done    chan struct{}
}

type cacheEntry struct {
	counters   Counters
	defaultTab Tab
	expiration time.Time
}

// NewSnapshotCache creates a cache whose entries expire after ttl.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	c := &SnapshotCache{
		data:    make(map[string]*cacheEntry),
		ttl:     ttl,
		cleanup: time.NewTicker(time.Minute),
		done:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached counters for a key, if still fresh.
func (c *SnapshotCache) Get(key string) (Counters, Tab, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiration) {
		return Counters{}, "", false
	}
	return entry.counters, entry.defaultTab, true
}

// Set stores the counters for a key.
func (c *SnapshotCache) Set(key string, counters Counters, defaultTab Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &cacheEntry{
		counters:   counters,
		defaultTab: defaultTab,
		expiration: time.Now().Add(c.ttl),
	}
}

func (c *SnapshotCache) cleanupLoop() {
	for {
		select {
		case <-c.cleanup.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

func (c *SnapshotCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}
}

// Invalidate drops every cached entry. Called when a status change commits
// so the counters never outlive the snapshot they were computed from; the TTL
// only backstops changes that bypass the workflow (direct data fixes).
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*cacheEntry)
}

// Stop stops the cleanup goroutine.
func (c *SnapshotCache) Stop() {
	c.cleanup.Stop()
	close(c.done)
}

// CacheInvalidator wraps a workflow notifier so every committed transition
// clears the counters cache before delivery continues.
type CacheInvalidator struct {
	cache *SnapshotCache
	next  workflow.Notifier
}

// NewCacheInvalidator creates the invalidating notifier wrapper.
func NewCacheInvalidator(cache *SnapshotCache, next workflow.Notifier) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, next: next}
}

// EventStatusChanged implements workflow.Notifier.
func (n *CacheInvalidator) EventStatusChanged(ctx context.Context, change workflow.StatusChange) error {
	n.cache.Invalidate()
	return n.next.EventStatusChanged(ctx, change)
}

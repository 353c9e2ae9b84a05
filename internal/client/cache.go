package client

import (
	"sync"
	"time"

	"github.com/gigvora/escrow/internal/domain"
)

// OverviewCache holds fetched overview snapshots per freelancer with a
// fixed TTL. It is injected into each Client rather than shared as a
// package singleton, so independent freelancer contexts and tests do
// not bleed into each other.
type OverviewCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*cacheEntry
	nowFn   func() time.Time
}

type cacheEntry struct {
	overview  *domain.Overview
	fetchedAt time.Time
	err       error
}

// NewOverviewCache creates a cache with the given TTL. A zero ttl
// falls back to 45 seconds.
func NewOverviewCache(ttl time.Duration) *OverviewCache {
	if ttl <= 0 {
		ttl = 45 * time.Second
	}

	return &OverviewCache{
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		nowFn:   time.Now,
	}
}

// get returns the entry for a freelancer plus whether it is still
// within the TTL. A stale entry is returned with fresh=false so
// callers can serve it while a refetch happens. The entry is a copy;
// setError mutates map entries in place under the lock, so handing out
// a live pointer would race with concurrent readers.
func (c *OverviewCache) get(freelancerID string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[freelancerID]
	if !ok {
		return nil, false
	}

	snapshot := *entry

	return &snapshot, c.nowFn().Sub(entry.fetchedAt) < c.ttl
}

func (c *OverviewCache) set(freelancerID string, overview *domain.Overview) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[freelancerID] = &cacheEntry{
		overview:  overview,
		fetchedAt: c.nowFn(),
	}
}

// setError records a fetch failure against the existing entry without
// discarding the stale snapshot.
func (c *OverviewCache) setError(freelancerID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[freelancerID]; ok {
		entry.err = err
		return
	}

	c.entries[freelancerID] = &cacheEntry{err: err}
}

// Invalidate drops the snapshot for one freelancer.
func (c *OverviewCache) Invalidate(freelancerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, freelancerID)
}

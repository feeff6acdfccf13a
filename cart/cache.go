// Package cart mirrors the server's authoritative cart into a small local
// summary. The cache exists only to drive the navigation badge: it is never
// consulted for anything that affects money, and staleness up to one
// reconciliation cycle is acceptable.
package cart

import "sync"

// Summary is the badge-facing view of the cart.
type Summary struct {
	ItemCount    int
	RunningTotal float64
}

// Cache holds the cart summary. The Reconciler is its only writer; any
// component may read. Observers registered with Subscribe see each new
// summary after it is written.
type Cache struct {
	mu      sync.RWMutex
	current Summary

	subMu       sync.Mutex
	subscribers []func(Summary)
}

// NewCache creates an empty cart cache.
func NewCache() *Cache {
	return &Cache{}
}

// Snapshot returns the current summary.
func (c *Cache) Snapshot() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Subscribe registers an observer invoked with each new summary. Observers
// run on the writing goroutine and must not block.
func (c *Cache) Subscribe(fn func(Summary)) {
	c.subMu.Lock()
	c.subscribers = append(c.subscribers, fn)
	c.subMu.Unlock()
}

// set overwrites the summary. Package-private: only the Reconciler writes.
func (c *Cache) set(s Summary) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()

	c.subMu.Lock()
	subs := make([]func(Summary), len(c.subscribers))
	copy(subs, c.subscribers)
	c.subMu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

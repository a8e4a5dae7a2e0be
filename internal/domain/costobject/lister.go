package costobject

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Lister returns the active cost objects as selector options.
type Lister interface {
	ListActiveOptions(ctx context.Context) ([]Option, error)
}

// CachedLister reuses the last successful listing until it expires or is invalidated.
// A zero TTL never expires; only Invalidate clears it.
type CachedLister struct {
	inner Lister
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	options   []Option
	fetchedAt time.Time
	valid     bool
}

// NewCachedLister wraps inner with a cache.
func NewCachedLister(inner Lister, ttl time.Duration) *CachedLister {
	return &CachedLister{inner: inner, ttl: ttl, now: time.Now}
}

// ListActiveOptions implements Lister. Failures are not cached.
func (c *CachedLister) ListActiveOptions(ctx context.Context) ([]Option, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && (c.ttl <= 0 || c.now().Sub(c.fetchedAt) < c.ttl) {
		return slices.Clone(c.options), nil
	}

	options, err := c.inner.ListActiveOptions(ctx)
	if err != nil {
		return nil, err
	}

	c.options = slices.Clone(options)
	c.fetchedAt = c.now()
	c.valid = true
	return options, nil
}

// Invalidate drops the cached listing.
func (c *CachedLister) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.options = nil
	c.mu.Unlock()
}

var _ Lister = (*CachedLister)(nil)

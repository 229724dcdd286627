// Package query provides a small keyed result cache in front of remote fetches.
// At most one fetch per key is in flight at any time; callers asking for the
// same key while a fetch is running share its outcome. Successful results are
// kept until their TTL elapses, errors are never cached.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key is the canonical identity of a query, built from its parts.
type Key string

// NewKey joins the parts of a query identity, e.g. NewKey("convert", "USD", "EUR", "100").
func NewKey(parts ...string) Key {
	return Key(strings.Join(parts, "\x1f"))
}

// FetchFunc retrieves a fresh value for a key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Cache memoizes fetch results per Key. A zero TTL keeps entries forever.
type Cache[T any] struct {
	mu      sync.RWMutex
	group   singleflight.Group
	entries map[Key]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache whose entries expire ttl after they were fetched.
func NewCache[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[Key]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key if it is present and fresh.
func (c *Cache[T]) Get(key Key) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.expired(e) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Fetch returns the cached value for key, or runs fetch to obtain it. Concurrent
// calls for the same key share a single fetch. The fetch runs detached from the
// cancellation of the first caller, so a caller giving up does not fail the
// others; each caller still stops waiting when its own ctx is done.
func (c *Cache[T]) Fetch(ctx context.Context, key Key, fetch FetchFunc[T]) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(string(key), func() (any, error) {
		v, err := fetch(detached)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entries[key] = entry[T]{value: v, fetchedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case res := <-ch:
		v, _ := res.Val.(T)
		return v, res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Invalidate drops the cached value for key. An in-flight fetch is not affected.
func (c *Cache[T]) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Purge removes expired entries and returns how many were dropped.
func (c *Cache[T]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[T]) expired(e entry[T]) bool {
	return c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl
}

// Package cache implements the client-side query cache: a keyed in-memory
// store of server responses with request coalescing, a staleness window,
// and prefix-based invalidation tied to mutations.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cache entry: resource name, operation, then normalized
// parameters. Two keys with the same parts address the same entry.
type Key []string

// NewKey builds a key from its parts.
func NewKey(parts ...string) Key {
	return Key(parts)
}

// separator never appears in key parts (resource names, query strings).
const separator = "\x1f"

func (k Key) String() string {
	return strings.Join(k, separator)
}

// HasPrefix reports whether k starts with the given prefix parts.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}

// Status is the lifecycle state of a cache entry.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusSuccess
)

type entry struct {
	key     Key
	data    any
	err     error
	status  Status
	staleAt time.Time

	// gen counts invalidations so a fetch that was in flight when one
	// landed cannot stamp its result as fresh.
	gen uint64
}

// Cache is the process-wide query cache. Safe for concurrent use.
type Cache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

// New creates a cache whose entries stay fresh for ttl after a successful
// fetch.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

// Query returns the cached value for key when present and fresh; otherwise
// it runs fetch. Concurrent calls for the same key share one fetch and all
// observe its result.
func (c *Cache) Query(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	ks := key.String()

	c.mu.Lock()
	if e, ok := c.entries[ks]; ok && e.status == StatusSuccess && time.Now().Before(e.staleAt) {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	e := c.ensure(key)
	if e.status != StatusSuccess {
		e.status = StatusLoading
	}
	startGen := e.gen
	c.mu.Unlock()

	data, err, _ := c.group.Do(ks, func() (any, error) {
		return fetch(ctx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	e = c.ensure(key)
	if err != nil {
		e.status = StatusError
		e.err = err
		return nil, err
	}
	e.status = StatusSuccess
	e.data = data
	e.err = nil
	if e.gen == startGen {
		e.staleAt = time.Now().Add(c.ttl)
	} else {
		// Invalidated while the fetch was in flight; the result may
		// predate the write, so it is served but never as fresh.
		e.staleAt = time.Time{}
	}
	return data, nil
}

// peek returns the entry for key without fetching. The boolean reports
// whether an entry exists at all.
func (c *Cache) peek(key Key) (any, Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return nil, StatusIdle, false
	}
	return e.data, e.status, true
}

// Invalidate marks every entry whose key starts with prefix as stale. The
// data stays available for display until the next Query refetches it.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.staleAt = time.Time{}
			e.gen++
		}
	}
}

// Mutate runs a write and, only on success, invalidates every affected
// prefix. A failed write leaves the cache exactly as it was.
func (c *Cache) Mutate(ctx context.Context, write func(context.Context) error, affected ...Key) error {
	if err := write(ctx); err != nil {
		return err
	}
	for _, prefix := range affected {
		c.Invalidate(prefix)
	}
	return nil
}

func (c *Cache) ensure(key Key) *entry {
	ks := key.String()
	e, ok := c.entries[ks]
	if !ok {
		e = &entry{key: key}
		c.entries[ks] = e
	}
	return e
}

// QueryAs is a typed wrapper around Cache.Query.
func QueryAs[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	data, err := c.Query(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := data.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %q holds %T", key.String(), data)
	}
	return v, nil
}

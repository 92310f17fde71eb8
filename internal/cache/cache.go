package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is an in-process string store with per-key expiry. It satisfies the
// same Set/Get/Delete contract as the Redis client and backs OTP codes and
// revoked tokens when no Redis address is configured.
type Cache struct {
	mu  sync.RWMutex
	now func() time.Time
	m   map[string]entry
}

type entry struct {
	val string
	exp time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.exp.IsZero() && !now.Before(e.exp)
}

func New() *Cache {
	return &Cache{
		now: time.Now,
		m:   make(map[string]entry),
	}
}

// WithClock replaces the time source; tests use it to expire keys.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return "", false, nil
	}

	if e.expired(now) {
		// a Set may have landed between the two locks; only drop what is still stale
		c.mu.Lock()
		if cur, ok := c.m[key]; ok && cur.expired(now) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return "", false, nil
	}

	return e.val, true, nil
}

// Set stores val under key. A non-positive ttl keeps the key until deleted.
func (c *Cache) Set(_ context.Context, key, val string, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.m[key] = entry{val: val, exp: exp}
	c.mu.Unlock()

	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()

	return nil
}

func (c *Cache) Ping(context.Context) error {
	return nil
}

// Sweep drops expired keys and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()
	removed := 0

	c.mu.Lock()
	for k, e := range c.m {
		if e.expired(now) {
			delete(c.m, k)
			removed++
		}
	}
	c.mu.Unlock()

	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *Cache) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

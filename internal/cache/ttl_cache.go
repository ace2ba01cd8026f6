package cache

import (
	"context"
	"sync"
	"time"

	"ChartDesk/internal/model"
)

type entry struct {
	bars []model.Bar
	exp  time.Time
}

// TTLCache is an in-process BarCache. Entries are copied in and out so callers
// can never mutate a cached history.
type TTLCache struct {
	mu  sync.RWMutex
	m   map[string]entry
	now func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), now: time.Now}
}

func (c *TTLCache) Get(_ context.Context, key string) ([]model.Bar, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.mu.Lock()
		// a Set may have replaced the entry since the read lock was released
		if cur, ok := c.m[key]; ok && !cur.exp.IsZero() && c.now().After(cur.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]model.Bar(nil), e.bars...), true, nil
}

func (c *TTLCache) Set(_ context.Context, key string, bars []model.Bar, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry{bars: append([]model.Bar(nil), bars...), exp: exp}
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultTTL = 30 * time.Minute

// MemoryCache keeps entries in process memory and sweeps expired ones
// on an interval
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time

	hits, misses, sets, evictions atomic.Int64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type entry struct {
	value  []byte
	expiry time.Time
}

// NewMemoryCache creates a memory cache. A non-positive sweepInterval
// disables the background sweep; expired entries are still never returned.
func NewMemoryCache(sweepInterval time.Duration) *MemoryCache {
	mc := &MemoryCache{
		items:  make(map[string]entry),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	if sweepInterval > 0 {
		mc.wg.Add(1)
		go mc.sweep(sweepInterval)
	}
	return mc
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	mc.mu.RLock()
	e, ok := mc.items[key]
	mc.mu.RUnlock()

	if !ok || !mc.now().Before(e.expiry) {
		mc.misses.Add(1)
		return nil, false
	}
	mc.hits.Add(1)
	return e.value, true
}

func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	buf := make([]byte, len(value))
	copy(buf, value)

	mc.mu.Lock()
	mc.items[key] = entry{value: buf, expiry: mc.now().Add(ttl)}
	mc.mu.Unlock()

	mc.sets.Add(1)
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	delete(mc.items, key)
	mc.mu.Unlock()
	return nil
}

// Stats returns a snapshot of cache counters
func (mc *MemoryCache) Stats() Stats {
	mc.mu.RLock()
	n := int64(len(mc.items))
	mc.mu.RUnlock()
	return Stats{
		Hits:      mc.hits.Load(),
		Misses:    mc.misses.Load(),
		Sets:      mc.sets.Load(),
		Evictions: mc.evictions.Load(),
		Entries:   n,
	}
}

// Close stops the sweeper. It is safe to call more than once.
func (mc *MemoryCache) Close() error {
	mc.stopOnce.Do(func() { close(mc.stopCh) })
	mc.wg.Wait()
	return nil
}

func (mc *MemoryCache) sweep(interval time.Duration) {
	defer mc.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.removeExpired()
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *MemoryCache) removeExpired() {
	now := mc.now()
	mc.mu.Lock()
	for key, e := range mc.items {
		if !now.Before(e.expiry) {
			delete(mc.items, key)
			mc.evictions.Add(1)
		}
	}
	mc.mu.Unlock()
}

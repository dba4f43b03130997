// Package cache holds rendered public collection reads between mutations.
package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"clearview/internal/domain/services"
)

const (
	defaultShardCount      = 16
	defaultTTL             = 5 * time.Minute
	defaultCleanupInterval = time.Minute
)

// LoadFunc produces the value for a key on a miss
type LoadFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	expiresAt time.Time
}

type shard struct {
	mu    sync.RWMutex
	items map[string]*entry
	// generations counts invalidations per key so a load that started before
	// an invalidation does not store its stale result
	generations map[string]uint64
}

// CollectionCache is a sharded TTL cache keyed by collection or record kind name
type CollectionCache struct {
	shards          []*shard
	ttl             time.Duration
	cleanupInterval time.Duration

	workerMu      sync.Mutex
	workerRunning bool
	workerStop    chan struct{}
	workerWg      sync.WaitGroup
}

// New creates a cache. Non-positive arguments fall back to defaults.
func New(shardCount int, ttl time.Duration) *CollectionCache {
	if shardCount < 1 {
		shardCount = defaultShardCount
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = &shard{
			items:       make(map[string]*entry),
			generations: make(map[string]uint64),
		}
	}

	return &CollectionCache{
		shards:          shards,
		ttl:             ttl,
		cleanupInterval: defaultCleanupInterval,
	}
}

func (c *CollectionCache) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Get returns a live value for key
func (c *CollectionCache) Get(key string) (any, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Load errors are returned and nothing is cached.
func (c *CollectionCache) GetOrLoad(ctx context.Context, key string, load LoadFunc) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	s := c.shardFor(key)
	s.mu.RLock()
	gen := s.generations[key]
	s.mu.RUnlock()

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.generations[key] == gen {
		s.items[key] = &entry{value: v, expiresAt: time.Now().Add(c.ttl)}
	}
	s.mu.Unlock()
	return v, nil
}

// Revalidate drops key so the next read loads fresh data
func (c *CollectionCache) Revalidate(key string) {
	s := c.shardFor(key)
	s.mu.Lock()
	delete(s.items, key)
	s.generations[key]++
	s.mu.Unlock()
}

// CleanExpired removes expired entries
func (c *CollectionCache) CleanExpired(ctx context.Context) error {
	now := time.Now()
	for _, s := range c.shards {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		for key, e := range s.items {
			if now.After(e.expiresAt) {
				delete(s.items, key)
			}
		}
		s.mu.Unlock()
	}
	return nil
}

// Len returns the number of stored entries, expired or not
func (c *CollectionCache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// StartCleanupWorker starts a goroutine that periodically removes expired entries
func (c *CollectionCache) StartCleanupWorker() {
	c.workerMu.Lock()
	defer c.workerMu.Unlock()

	if c.workerRunning {
		return
	}
	c.workerRunning = true
	c.workerStop = make(chan struct{})

	c.workerWg.Add(1)
	go c.cleanupWorker(c.workerStop)
}

// StopCleanupWorker stops the worker and waits for it to exit
func (c *CollectionCache) StopCleanupWorker() {
	c.workerMu.Lock()
	defer c.workerMu.Unlock()

	if !c.workerRunning {
		return
	}
	close(c.workerStop)
	c.workerWg.Wait()
	c.workerRunning = false
}

func (c *CollectionCache) cleanupWorker(stop <-chan struct{}) {
	defer c.workerWg.Done()

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			_ = c.CleanExpired(ctx)
			cancel()
		}
	}
}

var _ services.Revalidator = (*CollectionCache)(nil)

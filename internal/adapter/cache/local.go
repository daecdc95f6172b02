package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/ports"
)

type localEntry struct {
	value     string
	expiresAt time.Time
}

// LocalCache is the in-process fallback used when Redis is unreachable at
// startup. It keeps the conversation lookup path fast on a single instance;
// entries are not shared across replicas, which is acceptable because a
// cache miss just falls through to the store.
type LocalCache struct {
	mu      sync.RWMutex
	entries map[string]localEntry
	log     *zap.Logger
	done    chan struct{}
}

// NewLocalCache starts a cache whose expired entries are swept every
// sweepInterval.
func NewLocalCache(sweepInterval time.Duration, log *zap.Logger) ports.Cache {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	c := &LocalCache{
		entries: make(map[string]localEntry),
		log:     log,
		done:    make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)

	log.Info("Using in-process cache", zap.Duration("sweep_interval", sweepInterval))
	return c
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("cache: key not found: %s", key)
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return "", fmt.Errorf("cache: key expired: %s", key)
	}
	return entry.value, nil
}

// Set stores value under key. Non-string values are stored as JSON, matching
// what the Redis client does with marshaled conversation state.
func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("cache: marshal value: %w", err)
		}
		s = string(b)
	}

	entry := localEntry{value: s}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	close(c.done)
	return nil
}

func (c *LocalCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

func (c *LocalCache) sweep() {
	now := time.Now()

	c.mu.Lock()
	swept := 0
	for key, entry := range c.entries {
		if !entry.expiresAt.IsZero() && entry.expiresAt.Before(now) {
			delete(c.entries, key)
			swept++
		}
	}
	c.mu.Unlock()

	if swept > 0 {
		c.log.Debug("Swept expired cache entries", zap.Int("count", swept))
	}
}

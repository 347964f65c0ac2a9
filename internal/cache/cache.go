// Crease - Cricket Statistics Ingestion and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crease

package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crease/internal/metrics"
)

// Entry is a cached report result.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
	// Generation is the table generation the result was computed against.
	Generation uint64
}

// Cache holds report and leaderboard results in memory. Entries expire after
// a TTL and are all invalidated by Clear, which the API calls whenever the
// consolidated tables are reloaded. Each Clear starts a new generation; an
// entry from an older generation is never returned.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	ttl        time.Duration
	generation atomic.Uint64

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	lastCleanup atomic.Int64 // unix nanos

	stopOnce sync.Once
	stop     chan struct{}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	Generation  uint64
	LastCleanup time.Time
}

// New creates a cache whose entries expire after ttl. A background goroutine
// removes expired entries until Close is called.
//
//	c := cache.New(time.Minute)
//	defer c.Close()
//	c.Set(cache.GenerateKey("report", req), result)
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	c.lastCleanup.Store(time.Now().UnixNano())

	go c.cleanupLoop(cleanupInterval(ttl))

	return c
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > 5*time.Minute {
		return 5 * time.Minute
	}
	return ttl
}

// Close stops the background cleanup goroutine.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Get returns a live entry of the current generation. Lookups are counted
// per key kind (the part of the key before the first colon).
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	kind := keyKind(key)
	if !exists {
		c.miss(kind)
		return nil, false
	}

	if entry.Generation != c.generation.Load() || time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.ExpiresAt.Equal(entry.ExpiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
		c.miss(kind)
		return nil, false
	}

	c.hits.Add(1)
	metrics.RecordResultCacheLookup(kind, true)
	return entry.Data, true
}

func (c *Cache) miss(kind string) {
	c.misses.Add(1)
	metrics.RecordResultCacheLookup(kind, false)
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry{
		Data:       value,
		ExpiresAt:  time.Now().Add(ttl),
		Generation: c.generation.Load(),
	}
	c.mu.Unlock()
}

// Generation returns the current generation. Capture it before computing a
// result and store the result with SetForGeneration.
func (c *Cache) Generation() uint64 {
	return c.generation.Load()
}

// SetForGeneration stores a value computed during generation gen. It is
// dropped if Clear ran in the meantime.
func (c *Cache) SetForGeneration(key string, value interface{}, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation.Load() {
		return
	}
	c.entries[key] = Entry{
		Data:       value,
		ExpiresAt:  time.Now().Add(c.ttl),
		Generation: gen,
	}
}

// Clear drops every entry and starts a new generation.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.generation.Add(1)
	dropped := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.evictions.Add(dropped)
}

// GetStats returns a snapshot of current cache statistics.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	keys := int64(len(c.entries))
	c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		TotalKeys:   keys,
		Generation:  c.generation.Load(),
		LastCleanup: time.Unix(0, c.lastCleanup.Load()),
	}
}

// HitRate returns the hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0.0
	}
	return float64(hits) / float64(hits+misses) * 100.0
}

func (c *Cache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes expired entries and entries of older generations.
func (c *Cache) cleanup() {
	now := time.Now()
	gen := c.generation.Load()

	c.mu.Lock()
	var removed int64
	for key, entry := range c.entries {
		if entry.Generation != gen || now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	c.evictions.Add(removed)
	c.lastCleanup.Store(now.UnixNano())
}

func keyKind(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}

// GenerateKey creates a cache key from a kind and its request parameters.
func GenerateKey(kind string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", kind, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", kind, hash[:16])
}

// Package cache provides a bounded, TTL-aware, content-addressed result cache
// on top of golang-lru's expirable LRU.
//
// Keys are fingerprints of the inputs that produced a value, so a stale entry is
// never served for changed input: changed input simply hashes to a different key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultMaxEntries is used when Config.MaxEntries is not positive
	DefaultMaxEntries = 1000
	// DefaultTTL is used when Config.TTL is not positive
	DefaultTTL = 10 * time.Minute
)

// Config controls cache capacity and entry lifetime
type Config struct {
	Enabled    bool
	MaxEntries int
	TTL        time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		MaxEntries: DefaultMaxEntries,
		TTL:        DefaultTTL,
	}
}

// Stats is a point-in-time view of cache counters
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Sets      int64   `json:"sets"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	HitRate   float64 `json:"hitRate"`
}

// Entry is an exported cache item, used for state export/import
type Entry[V any] struct {
	Key       string    `json:"key"`
	Value     V         `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// item keeps its own expiry so exported deadlines survive Load and the
// clock stays injectable; the LRU's TTL only reclaims memory in the background
type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a concurrency-safe LRU cache with per-entry TTL
type Cache[V any] struct {
	config Config
	lru    *expirable.LRU[string, item[V]]

	clockMu sync.RWMutex
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

// New creates a cache. Zero-valued limits fall back to the defaults.
func New[V any](config Config) *Cache[V] {
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultMaxEntries
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}

	c := &Cache[V]{
		config: config,
		now:    time.Now,
	}
	c.lru = expirable.NewLRU[string, item[V]](config.MaxEntries, func(string, item[V]) {
		c.evictions.Add(1)
	}, config.TTL)
	return c
}

// SetClock replaces the time source; used by tests to drive expiry
func (c *Cache[V]) SetClock(now func() time.Time) {
	c.clockMu.Lock()
	defer c.clockMu.Unlock()
	c.now = now
}

func (c *Cache[V]) clock() time.Time {
	c.clockMu.RLock()
	defer c.clockMu.RUnlock()
	return c.now()
}

// Enabled reports whether the cache stores anything at all
func (c *Cache[V]) Enabled() bool {
	return c.config.Enabled
}

// Get returns the value stored under key and whether it was a live hit
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if !c.config.Enabled {
		return zero, false
	}

	it, ok := c.lru.Get(key)
	if ok && c.clock().Before(it.expiresAt) {
		c.hits.Add(1)
		return it.value, true
	}

	// expired entries are dropped on touch and counted as evictions
	c.lru.Remove(key)
	c.misses.Add(1)
	return zero, false
}

// Set stores value under key, evicting the least recently used entry when full
func (c *Cache[V]) Set(key string, value V) {
	if !c.config.Enabled {
		return
	}
	c.sets.Add(1)
	c.lru.Add(key, item[V]{value: value, expiresAt: c.clock().Add(c.config.TTL)})
}

// Delete removes a key if present
func (c *Cache[V]) Delete(key string) {
	c.lru.Remove(key)
}

// Clear drops every entry and resets counters
func (c *Cache[V]) Clear() {
	c.lru.Purge()
	c.resetCounters()
}

func (c *Cache[V]) resetCounters() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
	c.evictions.Store(0)
}

// Len returns the number of stored entries, expired ones included until reclaimed
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Stats returns cache counters
func (c *Cache[V]) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()

	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return Stats{
		Hits:      hits,
		Misses:    misses,
		Sets:      c.sets.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.lru.Len(),
		HitRate:   hitRate,
	}
}

// Entries returns live entries from most to least recently used
func (c *Cache[V]) Entries() []Entry[V] {
	now := c.clock()
	keys := c.lru.Keys()

	out := make([]Entry[V], 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		it, ok := c.lru.Peek(keys[i])
		if !ok || !now.Before(it.expiresAt) {
			continue
		}
		out = append(out, Entry[V]{Key: keys[i], Value: it.value, ExpiresAt: it.expiresAt})
	}
	return out
}

// Load replaces the cache content with entries, skipping expired ones.
// Counters are reset. Entries are expected most recently used first.
func (c *Cache[V]) Load(entries []Entry[V]) {
	c.lru.Purge()
	defer c.resetCounters()

	if !c.config.Enabled {
		return
	}

	now := c.clock()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !now.Before(e.ExpiresAt) {
			continue
		}
		c.lru.Add(e.Key, item[V]{value: e.Value, expiresAt: e.ExpiresAt})
	}
}

// Fingerprint hashes the given parts into a stable hex key
func Fingerprint(parts ...interface{}) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v|", p)
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

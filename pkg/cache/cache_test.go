package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_HitMissCounters(t *testing.T) {
	c := New[int](DefaultConfig())

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 50.0, stats.HitRate, 0.001)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string](Config{Enabled: true, MaxEntries: 2, TTL: time.Hour})

	c.Set("a", "A")
	c.Set("b", "B")
	_, _ = c.Get("a") // a becomes most recent
	c.Set("c", "C")

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCache_ExpiresEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[int](Config{Enabled: true, MaxEntries: 10, TTL: time.Minute})
	c.SetClock(func() time.Time { return now })

	c.Set("a", 1)
	now = now.Add(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Disabled(t *testing.T) {
	c := New[int](Config{Enabled: false})
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Stats().Misses)
}

func TestCache_EntriesRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := New[int](Config{Enabled: true, MaxEntries: 10, TTL: time.Minute})
	src.SetClock(func() time.Time { return now })
	src.Set("a", 1)
	src.Set("b", 2)

	dst := New[int](Config{Enabled: true, MaxEntries: 10, TTL: time.Minute})
	dst.SetClock(func() time.Time { return now })
	dst.Set("stale", 9)
	dst.Load(src.Entries())

	assert.Equal(t, 2, dst.Len())
	_, ok := dst.Get("stale")
	assert.False(t, ok)
	v, ok := dst.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, src.Entries()[0].Key, "b")
}

func TestCache_DeleteAndExpiryCountAsEvictions(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[int](Config{Enabled: true, MaxEntries: 10, TTL: time.Minute})
	c.SetClock(func() time.Time { return now })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)
	c.Delete("b")
	c.Delete("missing")
	assert.Equal(t, int64(1), c.Stats().Evictions)

	now = now.Add(2 * time.Minute)
	_, ok := c.Get("a")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Evictions)
	assert.Equal(t, int64(3), stats.Sets)
	assert.Equal(t, 0, stats.Size)

	c.Set("c", 4)
	c.Clear()
	assert.Equal(t, Stats{}, c.Stats())
}

func TestCache_LoadSkipsExpiredEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New[int](Config{Enabled: true, MaxEntries: 10, TTL: time.Minute})
	c.SetClock(func() time.Time { return now })

	c.Load([]Entry[int]{
		{Key: "live", Value: 1, ExpiresAt: now.Add(30 * time.Second)},
		{Key: "gone", Value: 2, ExpiresAt: now.Add(-time.Second)},
	})
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(0), c.Stats().Evictions)

	now = now.Add(31 * time.Second)
	_, ok := c.Get("live")
	assert.False(t, ok, "loaded entries keep their exported deadline")
	assert.Empty(t, c.Entries())
}

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint("wallet", 42.5, 3)
	b := Fingerprint("wallet", 42.5, 3)
	c := Fingerprint("wallet", 42.5, 4)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

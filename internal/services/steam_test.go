package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSteamCacheTTL(t *testing.T) {
	cache := newSteamCache(time.Hour)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	artwork := GameArtwork{AppID: "570", Name: "Dota 2", Found: true}
	cache.put("570", artwork, cache.ttl)

	got, ok := cache.get("570")
	require.True(t, ok)
	require.Equal(t, "Dota 2", got.Name)

	// Still fresh just inside the TTL.
	now = now.Add(time.Hour)
	_, ok = cache.get("570")
	require.True(t, ok)

	// Expired past the TTL.
	now = now.Add(time.Second)
	_, ok = cache.get("570")
	require.False(t, ok)
}

func TestSteamCacheNegativeTTLIsShorter(t *testing.T) {
	cache := newSteamCache(time.Hour)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.put("999999", GameArtwork{AppID: "999999"}, steamNegativeTTL)

	now = now.Add(steamNegativeTTL + time.Second)
	_, ok := cache.get("999999")
	require.False(t, ok, "failed lookups expire quickly")
}

func TestSteamCachePrune(t *testing.T) {
	cache := newSteamCache(time.Hour)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.put("1", GameArtwork{AppID: "1"}, time.Minute)
	cache.put("2", GameArtwork{AppID: "2"}, time.Hour)

	now = now.Add(30 * time.Minute)
	require.Equal(t, 1, cache.prune())

	_, ok := cache.get("2")
	require.True(t, ok)
}

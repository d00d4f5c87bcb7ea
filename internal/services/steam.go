package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	steamStoreAPI = "https://store.steampowered.com/api/appdetails"
	steamCDN      = "https://cdn.cloudflare.steamstatic.com/steam/apps"

	// Failed lookups are cached briefly so a missing app does not hammer the
	// store API.
	steamNegativeTTL = 5 * time.Minute
)

// GameArtwork is the resolved Steam artwork for one app.
type GameArtwork struct {
	AppID      string `json:"app_id"`
	Name       string `json:"name,omitempty"`
	HeroURL    string `json:"hero_url,omitempty"`
	CapsuleURL string `json:"capsule_url,omitempty"`
	Found      bool   `json:"found"`
}

type steamCacheEntry struct {
	artwork   GameArtwork
	expiresAt time.Time
}

type steamCache struct {
	mu      sync.RWMutex
	entries map[string]steamCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newSteamCache(ttl time.Duration) *steamCache {
	return &steamCache{
		entries: make(map[string]steamCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *steamCache) get(appID string) (GameArtwork, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[appID]
	if !ok || c.now().After(entry.expiresAt) {
		return GameArtwork{}, false
	}
	return entry.artwork, true
}

func (c *steamCache) put(appID string, artwork GameArtwork, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[appID] = steamCacheEntry{artwork: artwork, expiresAt: c.now().Add(ttl)}
}

// prune drops expired entries and returns how many were removed.
func (c *steamCache) prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for appID, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, appID)
			removed++
		}
	}
	return removed
}

// SteamService resolves Steam store artwork with an in-process TTL cache.
type SteamService struct {
	client *http.Client
	cache  *steamCache
}

func NewSteamService(cacheTTL time.Duration) *SteamService {
	return &SteamService{
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  newSteamCache(cacheTTL),
	}
}

// GameArtwork looks up an app's name and library artwork, serving from cache
// when fresh. Missing apps are cached with a short negative TTL.
func (s *SteamService) GameArtwork(ctx context.Context, appID string) (*GameArtwork, error) {
	if cached, ok := s.cache.get(appID); ok {
		return &cached, nil
	}

	name, err := s.fetchAppName(ctx, appID)
	if err != nil {
		log.Debugf("steam: appdetails lookup for %s failed: %v", appID, err)
		miss := GameArtwork{AppID: appID, Found: false}
		s.cache.put(appID, miss, steamNegativeTTL)
		return &miss, nil
	}

	heroURL := fmt.Sprintf("%s/%s/library_hero.jpg", steamCDN, appID)
	capsuleURL := fmt.Sprintf("%s/%s/library_600x900.jpg", steamCDN, appID)

	// Both images are probed in parallel; a missing one is simply omitted.
	var wg sync.WaitGroup
	var heroOK, capsuleOK bool
	wg.Add(2)
	go func() {
		defer wg.Done()
		heroOK = s.headOK(ctx, heroURL)
	}()
	go func() {
		defer wg.Done()
		capsuleOK = s.headOK(ctx, capsuleURL)
	}()
	wg.Wait()

	artwork := GameArtwork{AppID: appID, Name: name, Found: true}
	if heroOK {
		artwork.HeroURL = heroURL
	}
	if capsuleOK {
		artwork.CapsuleURL = capsuleURL
	}

	s.cache.put(appID, artwork, s.cache.ttl)
	return &artwork, nil
}

func (s *SteamService) fetchAppName(ctx context.Context, appID string) (string, error) {
	url := fmt.Sprintf("%s?appids=%s&filters=basic", steamStoreAPI, appID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("steam store returned %d", resp.StatusCode)
	}

	var payload map[string]struct {
		Success bool `json:"success"`
		Data    struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	entry, ok := payload[appID]
	if !ok || !entry.Success {
		return "", errors.New("app not found")
	}
	return entry.Data.Name, nil
}

func (s *SteamService) headOK(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// PruneCache evicts expired artwork entries. Called by the scheduler.
func (s *SteamService) PruneCache() int {
	return s.cache.prune()
}

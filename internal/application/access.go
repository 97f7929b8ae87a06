package application

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"codedrop/internal/ports/output"
)

const (
	banCacheSize = 4096
	banCacheTTL  = time.Minute
)

type banCacheEntry struct {
	banned    bool
	expiresAt time.Time
}

// AccessFilter answers whether a user is denied service. Lookups are cached
// for a short TTL so a claim storm does not hit the banned table per message.
type AccessFilter struct {
	bans  output.BanRepository
	cache *lru.Cache
	ttl   time.Duration
	clock Clock
}

func NewAccessFilter(bans output.BanRepository, clock Clock) (*AccessFilter, error) {
	cache, err := lru.New(banCacheSize)
	if err != nil {
		return nil, fmt.Errorf("ban cache: %w", err)
	}
	return &AccessFilter{bans: bans, cache: cache, ttl: banCacheTTL, clock: clock}, nil
}

func (f *AccessFilter) IsBanned(ctx context.Context, userID string) (bool, error) {
	now := f.clock.Now()
	if v, ok := f.cache.Get(userID); ok {
		entry := v.(banCacheEntry)
		if now.Before(entry.expiresAt) {
			return entry.banned, nil
		}
		f.cache.Remove(userID)
	}
	banned, err := f.bans.IsBanned(ctx, userID)
	if err != nil {
		return false, err
	}
	f.cache.Add(userID, banCacheEntry{banned: banned, expiresAt: now.Add(f.ttl)})
	return banned, nil
}

package sqlstore

import (
	"context"
	"fmt"

	"github.com/goliatone/go-bridge/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const allowlistCacheKey = "go-bridge::allowlist::v1"

// CachedAllowlistStore fronts the durable allowlist with a read-through
// cache. The allowlist never changes after genesis, so every lookup after
// the first comes from cache; Replace invalidates before reloading.
type CachedAllowlistStore struct {
	base  core.AllowlistStore
	cache repositorycache.CacheService
}

func NewCachedAllowlistStore(
	base core.AllowlistStore,
	cacheService repositorycache.CacheService,
) (*CachedAllowlistStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base allowlist store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: allowlist cache service is required")
	}
	return &CachedAllowlistStore{base: base, cache: cacheService}, nil
}

func (s *CachedAllowlistStore) Load(ctx context.Context) (core.AllowList, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.AllowList{}, fmt.Errorf("sqlstore: cached allowlist store is not configured")
	}
	entries, err := repositorycache.GetOrFetch(ctx, s.cache, allowlistCacheKey, func(ctx context.Context) ([]string, error) {
		list, fetchErr := s.base.Load(ctx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		channels := list.Channels()
		out := make([]string, 0, len(channels))
		for _, channel := range channels {
			out = append(out, channel.String())
		}
		return out, nil
	})
	if err != nil {
		return core.AllowList{}, err
	}

	channels := make([]core.ChannelAddress, 0, len(entries))
	for _, entry := range entries {
		channel, parseErr := core.ParseChannelAddress(entry)
		if parseErr != nil {
			return core.AllowList{}, fmt.Errorf("sqlstore: cached allowlist entry %q: %w", entry, parseErr)
		}
		channels = append(channels, channel)
	}
	return core.NewAllowList(channels)
}

func (s *CachedAllowlistStore) Replace(ctx context.Context, list core.AllowList) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached allowlist store is not configured")
	}
	if err := s.base.Replace(ctx, list); err != nil {
		return err
	}
	return s.cache.Delete(ctx, allowlistCacheKey)
}

var _ core.AllowlistStore = (*CachedAllowlistStore)(nil)

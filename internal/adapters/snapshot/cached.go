package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
)

// Cached is a write-through cache in front of a snapshot repository.
// Cache failures are logged and never fail the call.
type Cached struct {
	inner domain.SnapshotRepo
	cache domain.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

var _ domain.SnapshotRepo = (*Cached)(nil)

// NewCached wraps inner.
func NewCached(inner domain.SnapshotRepo, cache domain.Cache, ttl time.Duration, logger zerolog.Logger) *Cached {
	return &Cached{inner: inner, cache: cache, ttl: ttl, log: logger}
}

func cacheKey(id string) string {
	return "snapshot:" + id
}

// LoadSnapshot serves from cache when possible and fills it on a miss.
func (c *Cached) LoadSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	raw, err := c.cache.Get(ctx, cacheKey(id))
	switch {
	case err == nil:
		var snap domain.Snapshot
		if err := json.Unmarshal(raw, &snap); err == nil {
			return snap, nil
		}
		c.log.Warn().Str("snapshot", id).Msg("snapshot cache: undecodable entry")
	case !errors.Is(err, domain.ErrCacheMiss):
		c.log.Warn().Err(err).Str("snapshot", id).Msg("snapshot cache: get failed")
	}

	snap, err := c.inner.LoadSnapshot(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	c.store(ctx, id, snap)
	return snap, nil
}

// SaveSnapshot persists to the inner repository, then refreshes the cache.
func (c *Cached) SaveSnapshot(ctx context.Context, id string, snap domain.Snapshot) error {
	if err := c.inner.SaveSnapshot(ctx, id, snap); err != nil {
		return err
	}
	c.store(ctx, id, snap)
	return nil
}

func (c *Cached) store(ctx context.Context, id string, snap domain.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		c.log.Warn().Err(err).Str("snapshot", id).Msg("snapshot cache: encode failed")
		return
	}
	if err := c.cache.Set(ctx, cacheKey(id), payload, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("snapshot", id).Msg("snapshot cache: set failed")
	}
}

package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
)

type countingRepo struct {
	snaps map[string]domain.Snapshot
	loads int
}

func (r *countingRepo) LoadSnapshot(_ context.Context, id string) (domain.Snapshot, error) {
	r.loads++
	snap, ok := r.snaps[id]
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return snap, nil
}

func (r *countingRepo) SaveSnapshot(_ context.Context, id string, snap domain.Snapshot) error {
	r.snaps[id] = snap
	return nil
}

type mapCache struct {
	data   map[string][]byte
	getErr error
}

func (c *mapCache) Once(_ context.Context, _ string, _ time.Duration, fn func() error) error {
	return fn()
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func TestCachedServesSecondLoadFromCache(t *testing.T) {
	inner := &countingRepo{snaps: map[string]domain.Snapshot{
		"main": {Config: domain.HighlightsConfig{Title: "Destaques"}, WeeklySchedule: domain.NewWeeklySchedule()},
	}}
	cached := NewCached(inner, &mapCache{data: map[string][]byte{}}, time.Minute, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		snap, err := cached.LoadSnapshot(ctx, "main")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if snap.Config.Title != "Destaques" {
			t.Fatalf("unexpected snapshot %+v", snap.Config)
		}
	}
	if inner.loads != 1 {
		t.Fatalf("expected a single inner load, got %d", inner.loads)
	}
}

func TestCachedWriteThrough(t *testing.T) {
	inner := &countingRepo{snaps: map[string]domain.Snapshot{}}
	cached := NewCached(inner, &mapCache{data: map[string][]byte{}}, time.Minute, zerolog.Nop())
	ctx := context.Background()

	if _, err := cached.LoadSnapshot(ctx, "main"); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
	snap := domain.Snapshot{Config: domain.HighlightsConfig{Title: "Novo"}, WeeklySchedule: domain.NewWeeklySchedule()}
	if err := cached.SaveSnapshot(ctx, "main", snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := cached.LoadSnapshot(ctx, "main")
	if err != nil || got.Config.Title != "Novo" {
		t.Fatalf("unexpected load %+v, %v", got.Config, err)
	}
	if inner.loads != 1 {
		t.Fatalf("saved snapshot should be served from cache, inner loads %d", inner.loads)
	}
}

func TestCachedFallsBackWhenCacheFails(t *testing.T) {
	inner := &countingRepo{snaps: map[string]domain.Snapshot{
		"main": {Config: domain.HighlightsConfig{Title: "Destaques"}, WeeklySchedule: domain.NewWeeklySchedule()},
	}}
	cached := NewCached(inner, &mapCache{data: map[string][]byte{}, getErr: errors.New("redis down")}, time.Minute, zerolog.Nop())
	if _, err := cached.LoadSnapshot(context.Background(), "main"); err != nil {
		t.Fatalf("cache failure must not fail the load: %v", err)
	}
}

package domain

import (
	"context"
	"time"
)

// SnapshotRepo persists whole-session snapshots.
type SnapshotRepo interface {
	// LoadSnapshot returns ErrSnapshotNotFound when nothing was saved under id.
	LoadSnapshot(ctx context.Context, id string) (Snapshot, error)
	SaveSnapshot(ctx context.Context, id string, snapshot Snapshot) error
}

// ProductCatalog supplies the assignable products.
type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// ProductWriter replaces catalog rows by id.
type ProductWriter interface {
	UpsertProducts(ctx context.Context, products []Product) error
}

// Cache is a small TTL key-value store.
type Cache interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Announcer delivers a rendered highlights message.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

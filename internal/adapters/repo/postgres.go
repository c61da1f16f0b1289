package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/metrics"
)

// Schema creates the tables used by Postgres.
const Schema = `
CREATE TABLE IF NOT EXISTS highlight_snapshots (
    id TEXT PRIMARY KEY,
    payload JSONB NOT NULL,
    saved_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS products (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
    image_url TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    available BOOLEAN NOT NULL DEFAULT TRUE
);
`

// Postgres implements the snapshot repository and product catalog on pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var (
	_ domain.SnapshotRepo   = (*Postgres)(nil)
	_ domain.ProductCatalog = (*Postgres)(nil)
)

// NewPostgres creates the adapter.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema creates missing tables.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()
	start := time.Now()
	_, err := p.pool.Exec(ctx, Schema)
	metrics.ObserveNetworkRequest("postgres", "ensure_schema", "schema", start, err)
	return err
}

// LoadSnapshot implements domain.SnapshotRepo.
func (p *Postgres) LoadSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM highlight_snapshots WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveNetworkRequest("postgres", "snapshot_select", "highlight_snapshots", start, nil)
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	metrics.ObserveNetworkRequest("postgres", "snapshot_select", "highlight_snapshots", start, err)
	if err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// SaveSnapshot implements domain.SnapshotRepo.
func (p *Postgres) SaveSnapshot(ctx context.Context, id string, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err = p.pool.Exec(ctx, `
INSERT INTO highlight_snapshots (id, payload, saved_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at
`, id, payload, snap.SavedAt.UTC())
	metrics.ObserveNetworkRequest("postgres", "snapshot_upsert", "highlight_snapshots", start, err)
	return err
}

// ListProducts implements domain.ProductCatalog.
func (p *Postgres) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id, name, description, price::float8, image_url, category, available
FROM products
ORDER BY id
`)
	metrics.ObserveNetworkRequest("postgres", "products_select", "products", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var pr domain.Product
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.Description, &pr.Price, &pr.ImageURL, &pr.Category, &pr.Available); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// UpsertProducts inserts or replaces catalog rows in one batch.
func (p *Postgres) UpsertProducts(ctx context.Context, products []domain.Product) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	batch := &pgx.Batch{}
	for _, pr := range products {
		batch.Queue(`
INSERT INTO products (id, name, description, price, image_url, category, available)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    image_url = EXCLUDED.image_url,
    category = EXCLUDED.category,
    available = EXCLUDED.available
`, pr.ID, pr.Name, pr.Description, pr.Price, pr.ImageURL, pr.Category, pr.Available)
	}
	start := time.Now()
	err := p.pool.SendBatch(ctx, batch).Close()
	metrics.ObserveNetworkRequest("postgres", "products_upsert", "products", start, err)
	return err
}

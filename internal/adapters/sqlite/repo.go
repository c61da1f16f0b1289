package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/metrics"
)

// Repo stores snapshots and the product catalog in a single SQLite file.
type Repo struct {
	db *sql.DB
}

var (
	_ domain.SnapshotRepo   = (*Repo)(nil)
	_ domain.ProductCatalog = (*Repo)(nil)
)

// Open opens path and applies migrations. Use ":memory:" for a throwaway database.
func Open(path string) (*Repo, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repo{db: db}, nil
}

// Close closes the database.
func (r *Repo) Close() error {
	return r.db.Close()
}

// LoadSnapshot implements domain.SnapshotRepo.
func (r *Repo) LoadSnapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	start := time.Now()
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM highlight_snapshots WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.ObserveNetworkRequest("sqlite", "snapshot_select", "highlight_snapshots", start, nil)
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	metrics.ObserveNetworkRequest("sqlite", "snapshot_select", "highlight_snapshots", start, err)
	if err != nil {
		return domain.Snapshot{}, err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// SaveSnapshot implements domain.SnapshotRepo.
func (r *Repo) SaveSnapshot(ctx context.Context, id string, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	start := time.Now()
	_, err = r.db.ExecContext(ctx, `
INSERT INTO highlight_snapshots (id, payload, saved_at)
VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
`, id, string(payload), snap.SavedAt.UTC())
	metrics.ObserveNetworkRequest("sqlite", "snapshot_upsert", "highlight_snapshots", start, err)
	return err
}

// ListProducts implements domain.ProductCatalog.
func (r *Repo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, price, image_url, category, available
FROM products
ORDER BY id
`)
	metrics.ObserveNetworkRequest("sqlite", "products_select", "products", start, err)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category, &p.Available); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertProducts inserts or replaces catalog rows.
func (r *Repo) UpsertProducts(ctx context.Context, products []domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO products (id, name, description, price, image_url, category, available)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    description = excluded.description,
    price = excluded.price,
    image_url = excluded.image_url,
    category = excluded.category,
    available = excluded.available
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.Available); err != nil {
			return fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

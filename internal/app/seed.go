package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"menu-highlights/internal/domain"
)

// SeedCatalog upserts the products listed in a JSON file. Entries without an id, a name or
// with a negative price are rejected as a whole.
func SeedCatalog(ctx context.Context, w domain.ProductWriter, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog seed: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return 0, fmt.Errorf("decode catalog seed: %w", err)
	}
	fields := map[string]string{}
	for i, p := range products {
		switch {
		case p.ID <= 0:
			fields[fmt.Sprintf("products[%d].id", i)] = "must be positive"
		case strings.TrimSpace(p.Name) == "":
			fields[fmt.Sprintf("products[%d].name", i)] = "is required"
		case p.Price < 0:
			fields[fmt.Sprintf("products[%d].price", i)] = "must not be negative"
		}
	}
	if len(fields) > 0 {
		return 0, domain.NewValidationError(fields)
	}
	if err := w.UpsertProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("upsert catalog seed: %w", err)
	}
	return len(products), nil
}

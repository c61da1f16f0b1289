package catalog

import (
	"fmt"
	"sort"
	"strings"

	"menu-highlights/internal/domain"
)

// SortBy selects the sort key of the filtered view.
type SortBy string

const (
	SortByName  SortBy = "name"
	SortByPrice SortBy = "price"
)

// SortOrder selects the direction of the filtered view.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DefaultMaxPrice is the upper bound of the default price range.
const DefaultMaxPrice = 100

// State is the current filter configuration.
type State struct {
	SearchTerm       string     `json:"searchTerm"`
	SelectedCategory string     `json:"selectedCategory"`
	PriceRange       [2]float64 `json:"priceRange"`
	SortBy           SortBy     `json:"sortBy"`
	SortOrder        SortOrder  `json:"sortOrder"`
	OnlyAvailable    bool       `json:"onlyAvailable"`
}

// Filter keeps the filter state over a point-in-time product snapshot.
type Filter struct {
	products []domain.Product
	state    State
	defaults State
}

// Option customises a Filter.
type Option func(*Filter)

// WithMaxPrice changes the default upper bound of the price range.
func WithMaxPrice(upper float64) Option {
	return func(f *Filter) {
		f.defaults.PriceRange[1] = upper
	}
}

// NewFilter creates a filter with default state over products.
func NewFilter(products []domain.Product, opts ...Option) *Filter {
	f := &Filter{
		defaults: State{
			PriceRange:    [2]float64{0, DefaultMaxPrice},
			SortBy:        SortByName,
			SortOrder:     SortAsc,
			OnlyAvailable: true,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.state = f.defaults
	f.SetProducts(products)
	return f
}

// SetProducts replaces the source snapshot.
func (f *Filter) SetProducts(products []domain.Product) {
	f.products = append([]domain.Product(nil), products...)
}

// State returns the current filter configuration.
func (f *Filter) State() State {
	return f.state
}

// SetSearchTerm sets the name substring to match.
func (f *Filter) SetSearchTerm(term string) {
	f.state.SearchTerm = term
}

// SetSelectedCategory sets the exact category to match; empty matches all.
func (f *Filter) SetSelectedCategory(category string) {
	f.state.SelectedCategory = category
}

// SetPriceRange sets the inclusive price bounds. Reversed bounds are swapped.
func (f *Filter) SetPriceRange(lo, hi float64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	f.state.PriceRange = [2]float64{lo, hi}
}

// SetSortBy sets the sort key.
func (f *Filter) SetSortBy(by SortBy) error {
	switch by {
	case SortByName, SortByPrice:
		f.state.SortBy = by
		return nil
	default:
		return domain.NewValidationError(map[string]string{"sortBy": fmt.Sprintf("unknown sort key %q", by)})
	}
}

// SetSortOrder sets the sort direction.
func (f *Filter) SetSortOrder(order SortOrder) error {
	switch order {
	case SortAsc, SortDesc:
		f.state.SortOrder = order
		return nil
	default:
		return domain.NewValidationError(map[string]string{"sortOrder": fmt.Sprintf("unknown sort order %q", order)})
	}
}

// SetOnlyAvailable hides unavailable products when true.
func (f *Filter) SetOnlyAvailable(only bool) {
	f.state.OnlyAvailable = only
}

// Apply replaces the whole state at once.
func (f *Filter) Apply(state State) error {
	prev := f.state
	if err := f.SetSortBy(state.SortBy); err != nil {
		return err
	}
	if err := f.SetSortOrder(state.SortOrder); err != nil {
		f.state = prev
		return err
	}
	f.SetSearchTerm(state.SearchTerm)
	f.SetSelectedCategory(state.SelectedCategory)
	f.SetPriceRange(state.PriceRange[0], state.PriceRange[1])
	f.SetOnlyAvailable(state.OnlyAvailable)
	return nil
}

// ClearFilters resets every field to its default.
func (f *Filter) ClearFilters() {
	f.state = f.defaults
}

// Defaults returns the state ClearFilters resets to.
func (f *Filter) Defaults() State {
	return f.defaults
}

// Products returns the filtered and sorted view. It is recomputed on every call.
func (f *Filter) Products() []domain.Product {
	return Apply(f.products, f.state)
}

// Find returns the product with id from the source snapshot, ignoring filters.
func (f *Filter) Find(id int64) (domain.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Categories lists the distinct categories of the source snapshot, sorted.
func (f *Filter) Categories() []string {
	seen := make(map[string]struct{}, len(f.products))
	out := make([]string, 0)
	for _, p := range f.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// AvailableFor narrows the filtered view to products not already scheduled in items.
func (f *Filter) AvailableFor(items []domain.ScheduleItem) []domain.Product {
	taken := make(map[int64]struct{}, len(items))
	for _, item := range items {
		taken[item.ProductID] = struct{}{}
	}
	view := f.Products()
	out := view[:0]
	for _, p := range view {
		if _, ok := taken[p.ID]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Apply filters and sorts products with state. The sort is stable so catalog order
// is kept among equal keys.
func Apply(products []domain.Product, state State) []domain.Product {
	term := strings.ToLower(strings.TrimSpace(state.SearchTerm))
	lo, hi := state.PriceRange[0], state.PriceRange[1]

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if state.OnlyAvailable && !p.Available {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		if state.SelectedCategory != "" && p.Category != state.SelectedCategory {
			continue
		}
		if p.Price < lo || p.Price > hi {
			continue
		}
		out = append(out, p)
	}

	less := func(a, b domain.Product) bool {
		if state.SortBy == SortByPrice {
			return a.Price < b.Price
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if state.SortOrder == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

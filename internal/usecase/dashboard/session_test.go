package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/catalog"
	"menu-highlights/internal/usecase/dialog"
)

type memoryRepo struct {
	snaps   map[string]domain.Snapshot
	loadErr error
	saves   int
}

func (r *memoryRepo) LoadSnapshot(_ context.Context, id string) (domain.Snapshot, error) {
	if r.loadErr != nil {
		return domain.Snapshot{}, r.loadErr
	}
	snap, ok := r.snaps[id]
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return snap, nil
}

func (r *memoryRepo) SaveSnapshot(_ context.Context, id string, snap domain.Snapshot) error {
	if r.snaps == nil {
		r.snaps = map[string]domain.Snapshot{}
	}
	r.snaps[id] = snap
	r.saves++
	return nil
}

type staticCatalog []domain.Product

func (c staticCatalog) ListProducts(context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), c...), nil
}

var products = staticCatalog{
	{ID: 1, Name: "X-Burger", Price: 35.90, Category: "lanches", Available: true},
	{ID: 2, Name: "Pizza Margherita", Price: 28.90, Category: "pizzas", Available: true},
	{ID: 3, Name: "Suco de Laranja", Price: 9.50, Category: "bebidas", Available: true},
	{ID: 4, Name: "Torta de Limão", Price: 12.00, Category: "sobremesas", Available: false},
}

func newTestSession(t *testing.T, repo *memoryRepo) *Session {
	t.Helper()
	seq := 0
	s := NewSession(repo, products, zerolog.Nop(), Options{
		SnapshotID: "test",
		Now:        func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			seq++
			return fmt.Sprintf("item-%d", seq)
		},
	})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func pct(v float64) domain.Discount { return domain.Discount{Type: domain.DiscountPercentage, Value: v} }

func TestLoadWithoutSnapshotUsesDefaults(t *testing.T) {
	s := newTestSession(t, &memoryRepo{})
	if got := s.Config().Title; got != "Destaques da Semana" {
		t.Fatalf("unexpected default title %q", got)
	}
	if s.Statistics().TotalProducts != 0 {
		t.Fatal("expected empty schedule")
	}
	if len(s.Categories()) != 4 {
		t.Fatalf("expected every catalog category, got %v", s.Categories())
	}
}

func TestLoadPropagatesRepoErrors(t *testing.T) {
	repo := &memoryRepo{loadErr: errors.New("disk on fire")}
	s := NewSession(repo, products, zerolog.Nop(), Options{})
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	repo := &memoryRepo{}
	s := newTestSession(t, repo)
	if _, err := s.AddProductToDay(domain.Sunday, 1, pct(15)); err != nil {
		t.Fatalf("add: %v", err)
	}
	title := "Promoções"
	if _, err := s.UpdateConfig(domain.ConfigPatch{Title: &title}); err != nil {
		t.Fatalf("update config: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := newTestSession(t, repo)
	if restored.Config().Title != "Promoções" {
		t.Fatalf("config not restored: %+v", restored.Config())
	}
	items, _ := restored.Day(domain.Sunday)
	if len(items) != 1 || items[0].FinalPrice != 30.52 {
		t.Fatalf("schedule not restored: %+v", items)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	s := newTestSession(t, &memoryRepo{})
	_, err := s.AddProductToDay(domain.Monday, 99, pct(10))
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestConfirmAddProductUsesDialogSelection(t *testing.T) {
	s := newTestSession(t, &memoryRepo{})

	if _, err := s.ConfirmAddProduct(1, pct(10)); !errors.Is(err, domain.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	if err := s.Dispatch(dialog.Intent{Action: dialog.ActionOpen, Dialog: dialog.AddProduct, Payload: dialog.DayTarget{Day: domain.Tuesday}}); err != nil {
		t.Fatalf("open: %v", err)
	}
	item, err := s.ConfirmAddProduct(2, domain.Discount{Type: domain.DiscountFixed, Value: 5})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if item.FinalPrice != 23.90 {
		t.Fatalf("expected 23.90, got %v", item.FinalPrice)
	}
	if s.Dialogs().Open[dialog.AddProduct] {
		t.Fatal("dialog should close on success")
	}
	items, _ := s.Day(domain.Tuesday)
	if len(items) != 1 {
		t.Fatalf("expected item on tuesday, got %d", len(items))
	}
}

func TestConfirmKeepsDialogOpenOnFailure(t *testing.T) {
	s := newTestSession(t, &memoryRepo{})
	_ = s.Dispatch(dialog.Intent{Action: dialog.ActionOpen, Dialog: dialog.AddProduct, Payload: dialog.DayTarget{Day: domain.Friday}})
	if _, err := s.ConfirmAddProduct(3, domain.Discount{Type: domain.DiscountFixed, Value: 20}); !errors.Is(err, domain.ErrDiscountExceedsPrice) {
		t.Fatalf("expected ErrDiscountExceedsPrice, got %v", err)
	}
	if !s.Dialogs().Open[dialog.AddProduct] {
		t.Fatal("dialog should stay open on failure")
	}
}

func TestConfirmEditDeleteAndCopy(t *testing.T) {
	s := newTestSession(t, &memoryRepo{})
	item, err := s.AddProductToDay(domain.Sunday, 1, pct(15))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	_ = s.Dispatch(dialog.Intent{Action: dialog.ActionOpen, Dialog: dialog.EditDiscount, Payload: dialog.ItemTarget{Day: domain.Sunday, ItemID: item.ID}})
	edited, found, err := s.ConfirmEditDiscount(pct(50))
	if err != nil || !found {
		t.Fatalf("edit: found=%v err=%v", found, err)
	}
	if edited.FinalPrice != 17.95 {
		t.Fatalf("expected 17.95, got %v", edited.FinalPrice)
	}

	_ = s.Dispatch(dialog.Intent{Action: dialog.ActionOpen, Dialog: dialog.CopyDay, Payload: dialog.DayTarget{Day: domain.Sunday}})
	res, err := s.ConfirmCopyDay(domain.Saturday, false)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if res.Copied != 1 {
		t.Fatalf("expected one copied item, got %+v", res)
	}

	_ = s.Dispatch(dialog.Intent{Action: dialog.ActionOpen, Dialog: dialog.Delete, Payload: dialog.ItemTarget{Day: domain.Sunday, ItemID: item.ID}})
	removed, err := s.ConfirmDelete()
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}

	stats := s.Statistics()
	if stats.TotalProducts != 1 || stats.MostProductiveDay == nil || *stats.MostProductiveDay != domain.Saturday {
		t.Fatalf("unexpected stats %+v", stats)
	}
	for name, open := range s.Dialogs().Open {
		if open {
			t.Fatalf("expected %s to be closed", name)
		}
	}
}

func TestQueryCatalogExcludesScheduledProducts(t *testing.T) {
	s := newTestSession(t, &memoryRepo{})
	if _, err := s.AddProductToDay(domain.Monday, 1, pct(10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	state := s.CatalogDefaults()
	state.SortBy = catalog.SortByPrice

	day := domain.Monday
	got, err := s.QueryCatalog(state, &day)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 2 {
		t.Fatalf("unexpected products %+v", got)
	}
	if s.CatalogState().SortBy != catalog.SortByPrice {
		t.Fatal("query should store the filter state")
	}

	all, _ := s.QueryCatalog(state, nil)
	if len(all) != 3 {
		t.Fatalf("expected all available products, got %d", len(all))
	}
}

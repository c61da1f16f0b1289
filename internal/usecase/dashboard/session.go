package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/metrics"
	"menu-highlights/internal/usecase/catalog"
	"menu-highlights/internal/usecase/dialog"
	"menu-highlights/internal/usecase/highlights"
	"menu-highlights/internal/usecase/schedule"
)

// Options tunes a Session.
type Options struct {
	SnapshotID string
	MaxPrice   float64
	Now        func() time.Time
	NewID      func() string
}

// Session is the single logical actor behind the dashboard. All methods are safe for
// concurrent use.
type Session struct {
	mu     sync.Mutex
	// saveMu orders writes so a slower save never overwrites a newer snapshot.
	saveMu sync.Mutex

	snapshotID string
	repo       domain.SnapshotRepo
	products   domain.ProductCatalog
	log        zerolog.Logger
	now        func() time.Time

	schedule *schedule.Store
	config   *highlights.Store
	catalog  *catalog.Filter
	dialogs  *dialog.Coordinator
}

// NewSession wires the stores. Call Load before serving.
func NewSession(repo domain.SnapshotRepo, products domain.ProductCatalog, logger zerolog.Logger, opts Options) *Session {
	if opts.SnapshotID == "" {
		opts.SnapshotID = "default"
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	storeOpts := []schedule.Option{schedule.WithClock(opts.Now)}
	if opts.NewID != nil {
		storeOpts = append(storeOpts, schedule.WithIDGenerator(opts.NewID))
	}
	var filterOpts []catalog.Option
	if opts.MaxPrice > 0 {
		filterOpts = append(filterOpts, catalog.WithMaxPrice(opts.MaxPrice))
	}
	return &Session{
		snapshotID: opts.SnapshotID,
		repo:       repo,
		products:   products,
		log:        logger.With().Str("component", "dashboard").Logger(),
		now:        opts.Now,
		schedule:   schedule.NewStore(storeOpts...),
		config:     highlights.NewStore(opts.Now),
		catalog:    catalog.NewFilter(nil, filterOpts...),
		dialogs:    dialog.NewCoordinator(),
	}
}

// Load restores the persisted snapshot and refreshes the catalog.
// A missing snapshot leaves the defaults in place.
func (s *Session) Load(ctx context.Context) error {
	snap, err := s.repo.LoadSnapshot(ctx, s.snapshotID)
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		s.log.Info().Str("snapshot", s.snapshotID).Msg("snapshot not found, starting from defaults")
	case err != nil:
		return fmt.Errorf("load snapshot: %w", err)
	default:
		s.mu.Lock()
		s.config.Restore(snap.Config)
		repaired := s.schedule.Restore(snap.WeeklySchedule)
		s.publishGauges()
		s.mu.Unlock()
		if repaired.Repaired() {
			s.log.Warn().
				Int("dropped_duplicates", repaired.DroppedDuplicates).
				Int("reassigned_ids", repaired.ReassignedIDs).
				Msg("snapshot repaired on restore")
		}
		s.log.Info().Str("snapshot", s.snapshotID).Time("saved_at", snap.SavedAt).Msg("snapshot restored")
	}
	return s.RefreshCatalog(ctx)
}

// Save persists config and schedule. The state is captured after any earlier save has
// finished, so the last Save to return always wrote the newest state.
func (s *Session) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := s.Snapshot()
	start := time.Now()
	err := s.repo.SaveSnapshot(ctx, s.snapshotID, snap)
	metrics.ObserveSnapshotSave(start)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Snapshot returns the persistable state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		Config:         s.config.Config(),
		WeeklySchedule: s.schedule.Schedule(),
		SavedAt:        s.now(),
	}
}

// RefreshCatalog reloads products from the catalog port.
func (s *Session) RefreshCatalog(ctx context.Context) error {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	s.mu.Lock()
	s.catalog.SetProducts(products)
	s.mu.Unlock()
	s.log.Debug().Int("products", len(products)).Msg("catalog refreshed")
	return nil
}

// Config returns the highlights configuration.
func (s *Session) Config() domain.HighlightsConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Config()
}

// UpdateConfig applies a partial configuration update.
func (s *Session) UpdateConfig(patch domain.ConfigPatch) (domain.HighlightsConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, err := s.config.UpdateConfig(patch)
	s.observe("update_config", err)
	return cfg, err
}

// ToggleConfigActive flips the configuration's active flag.
func (s *Session) ToggleConfigActive() domain.HighlightsConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.config.ToggleActive()
	s.observe("toggle_config", nil)
	return cfg
}

// ResetConfig restores the default configuration.
func (s *Session) ResetConfig() domain.HighlightsConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.config.Reset()
	s.observe("reset_config", nil)
	return cfg
}

// Schedule returns a copy of the whole week.
func (s *Session) Schedule() domain.WeeklySchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.Schedule()
}

// Day returns a copy of one day's items.
func (s *Session) Day(day domain.WeekDay) ([]domain.ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.Day(day)
}

func (s *Session) Statistics() domain.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.Statistics()
}

func (s *Session) DayStatistics(day domain.WeekDay) (domain.DayStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.DayStatistics(day)
}

// AddProductToDay schedules a catalog product on day.
func (s *Session) AddProductToDay(day domain.WeekDay, productID int64, d domain.Discount) (domain.ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.addLocked(day, productID, d)
	s.observe("add_product", err)
	return item, err
}

func (s *Session) addLocked(day domain.WeekDay, productID int64, d domain.Discount) (domain.ScheduleItem, error) {
	product, ok := s.catalog.Find(productID)
	if !ok {
		return domain.ScheduleItem{}, fmt.Errorf("%w: %d", domain.ErrProductNotFound, productID)
	}
	return s.schedule.AddProductToDay(day, product, d)
}

// RemoveProductFromDay deletes an item; removed is false when it did not exist.
func (s *Session) RemoveProductFromDay(day domain.WeekDay, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.schedule.RemoveProductFromDay(day, itemID)
	s.observe("remove_product", err)
	return removed, err
}

// UpdateProductDiscount replaces an item's discount.
func (s *Session) UpdateProductDiscount(day domain.WeekDay, itemID string, d domain.Discount) (domain.ScheduleItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, found, err := s.schedule.UpdateProductDiscount(day, itemID, d)
	s.observe("update_discount", err)
	return item, found, err
}

// ToggleProductStatus flips an item's active flag.
func (s *Session) ToggleProductStatus(day domain.WeekDay, itemID string) (domain.ScheduleItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, found, err := s.schedule.ToggleProductStatus(day, itemID)
	s.observe("toggle_product", err)
	return item, found, err
}

// CopyDaySchedule copies one day's items onto another.
func (s *Session) CopyDaySchedule(from, to domain.WeekDay, opts schedule.CopyOptions) (schedule.CopyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.schedule.CopyDaySchedule(from, to, opts)
	s.observe("copy_day", err)
	return res, err
}

// ClearDay removes every item on day.
func (s *Session) ClearDay(day domain.WeekDay) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.schedule.ClearDay(day)
	s.observe("clear_day", err)
	return n, err
}

// QueryCatalog stores state as the current filter and returns the matching products.
// When day is set, products already scheduled on it are left out.
func (s *Session) QueryCatalog(state catalog.State, day *domain.WeekDay) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.catalog.Apply(state); err != nil {
		return nil, err
	}
	if day == nil {
		return s.catalog.Products(), nil
	}
	items, err := s.schedule.Day(*day)
	if err != nil {
		return nil, err
	}
	return s.catalog.AvailableFor(items), nil
}

// Product looks a product up in the catalog snapshot, ignoring filters.
func (s *Session) Product(id int64) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Find(id)
}

// CatalogState returns the current filter state.
func (s *Session) CatalogState() catalog.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.State()
}

// ClearCatalogFilters resets the stored filter state to its defaults.
func (s *Session) ClearCatalogFilters() catalog.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.ClearFilters()
	return s.catalog.State()
}

// CatalogDefaults returns the filter state ClearFilters would restore.
func (s *Session) CatalogDefaults() catalog.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Defaults()
}

// Categories lists the distinct catalog categories.
func (s *Session) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Categories()
}

// Dispatch forwards a dialog intent.
func (s *Session) Dispatch(in dialog.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialogs.Dispatch(in)
}

// Dialogs returns which dialogs are open and their selections.
func (s *Session) Dialogs() dialog.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialogs.Snapshot()
}

// ConfirmConfig applies patch and closes the config dialog.
func (s *Session) ConfirmConfig(patch domain.ConfigPatch) (domain.HighlightsConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, err := s.config.UpdateConfig(patch)
	s.observe("update_config", err)
	if err != nil {
		return cfg, err
	}
	return cfg, s.dialogs.CloseDialog(dialog.Config)
}

// ConfirmAddProduct adds productID to the day selected in the addProduct dialog.
func (s *Session) ConfirmAddProduct(productID int64, d domain.Discount) (domain.ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.dialogs.DayTargetOf(dialog.AddProduct)
	if !ok {
		return domain.ScheduleItem{}, fmt.Errorf("%w: %s", domain.ErrNoSelection, dialog.AddProduct)
	}
	item, err := s.addLocked(target.Day, productID, d)
	s.observe("add_product", err)
	if err != nil {
		return item, err
	}
	return item, s.dialogs.CloseDialog(dialog.AddProduct)
}

// ConfirmEditDiscount updates the item selected in the editDiscount dialog.
func (s *Session) ConfirmEditDiscount(d domain.Discount) (domain.ScheduleItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.dialogs.ItemTargetOf(dialog.EditDiscount)
	if !ok {
		return domain.ScheduleItem{}, false, fmt.Errorf("%w: %s", domain.ErrNoSelection, dialog.EditDiscount)
	}
	item, found, err := s.schedule.UpdateProductDiscount(target.Day, target.ItemID, d)
	s.observe("update_discount", err)
	if err != nil || !found {
		return item, found, err
	}
	return item, true, s.dialogs.CloseDialog(dialog.EditDiscount)
}

// ConfirmDelete removes the item selected in the delete dialog.
func (s *Session) ConfirmDelete() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.dialogs.ItemTargetOf(dialog.Delete)
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrNoSelection, dialog.Delete)
	}
	removed, err := s.schedule.RemoveProductFromDay(target.Day, target.ItemID)
	s.observe("remove_product", err)
	if err != nil {
		return false, err
	}
	return removed, s.dialogs.CloseDialog(dialog.Delete)
}

// ConfirmCopyDay copies the day selected in the copyDay dialog onto to.
func (s *Session) ConfirmCopyDay(to domain.WeekDay, overwrite bool) (schedule.CopyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.dialogs.DayTargetOf(dialog.CopyDay)
	if !ok {
		return schedule.CopyResult{}, fmt.Errorf("%w: %s", domain.ErrNoSelection, dialog.CopyDay)
	}
	res, err := s.schedule.CopyDaySchedule(target.Day, to, schedule.CopyOptions{Overwrite: overwrite})
	s.observe("copy_day", err)
	if err != nil {
		return res, err
	}
	return res, s.dialogs.CloseDialog(dialog.CopyDay)
}

// observe must be called with mu held.
func (s *Session) observe(operation string, err error) {
	metrics.ObserveMutation(operation, err)
	if err != nil {
		s.log.Info().Err(err).Str("operation", operation).Str("code", domain.ErrorCode(err)).Msg("mutation rejected")
		return
	}
	s.log.Debug().Str("operation", operation).Msg("mutation applied")
	s.publishGauges()
}

func (s *Session) publishGauges() {
	stats := s.schedule.Statistics()
	metrics.SetScheduledItems(stats.ActiveProducts, stats.TotalProducts)
}

package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/discount"
)

// Store owns the weekly schedule. It is not safe for concurrent use; callers serialise access.
type Store struct {
	days  domain.WeeklySchedule
	now   func() time.Time
	newID func() string
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for addedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides schedule item id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// CopyOptions controls CopyDaySchedule.
type CopyOptions struct {
	Overwrite bool `json:"overwrite"`
}

// CopyResult reports what a copy did.
type CopyResult struct {
	Copied  int `json:"copied"`
	Skipped int `json:"skipped"`
}

// NewStore creates a store with 7 empty days.
func NewStore(opts ...Option) *Store {
	s := &Store{
		days:  domain.NewWeeklySchedule(),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule returns a deep copy of the whole week.
func (s *Store) Schedule() domain.WeeklySchedule {
	return s.days.Clone()
}

// Day returns a copy of one day's items.
func (s *Store) Day(day domain.WeekDay) ([]domain.ScheduleItem, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(day))
	}
	return append([]domain.ScheduleItem{}, s.days[day]...), nil
}

// Item looks up a single item.
func (s *Store) Item(day domain.WeekDay, itemID string) (domain.ScheduleItem, bool) {
	if !day.Valid() {
		return domain.ScheduleItem{}, false
	}
	idx := s.indexOf(day, itemID)
	if idx < 0 {
		return domain.ScheduleItem{}, false
	}
	return s.days[day][idx], true
}

// AddProductToDay snapshots product into a new active item on day.
func (s *Store) AddProductToDay(day domain.WeekDay, product domain.Product, d domain.Discount) (domain.ScheduleItem, error) {
	if !day.Valid() {
		return domain.ScheduleItem{}, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(day))
	}
	if s.hasProduct(day, product.ID) {
		return domain.ScheduleItem{}, fmt.Errorf("%w: product %d on %s", domain.ErrDuplicateProductInDay, product.ID, day)
	}
	if err := discount.ValidateDiscount(d, product.Price); err != nil {
		return domain.ScheduleItem{}, err
	}
	item := domain.ScheduleItem{
		ID:         s.newID(),
		ProductID:  product.ID,
		Product:    product,
		Discount:   d,
		FinalPrice: discount.CalculateFinalPrice(product.Price, d),
		Active:     true,
		AddedAt:    s.now(),
	}
	s.days[day] = append(s.days[day], item)
	return item, nil
}

// RemoveProductFromDay deletes an item. An unknown id is a no-op reported as false.
func (s *Store) RemoveProductFromDay(day domain.WeekDay, itemID string) (bool, error) {
	if !day.Valid() {
		return false, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(day))
	}
	idx := s.indexOf(day, itemID)
	if idx < 0 {
		return false, nil
	}
	items := s.days[day]
	s.days[day] = append(items[:idx:idx], items[idx+1:]...)
	return true, nil
}

// UpdateProductDiscount validates and applies a new discount, recomputing the final price.
// State is unchanged when validation fails.
func (s *Store) UpdateProductDiscount(day domain.WeekDay, itemID string, d domain.Discount) (domain.ScheduleItem, bool, error) {
	if !day.Valid() {
		return domain.ScheduleItem{}, false, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(day))
	}
	idx := s.indexOf(day, itemID)
	if idx < 0 {
		return domain.ScheduleItem{}, false, nil
	}
	item := s.days[day][idx]
	if err := discount.ValidateDiscount(d, item.Product.Price); err != nil {
		return item, true, err
	}
	item.Discount = d
	item.FinalPrice = discount.CalculateFinalPrice(item.Product.Price, d)
	s.days[day][idx] = item
	return item, true, nil
}

// ToggleProductStatus flips the active flag of an item.
func (s *Store) ToggleProductStatus(day domain.WeekDay, itemID string) (domain.ScheduleItem, bool, error) {
	if !day.Valid() {
		return domain.ScheduleItem{}, false, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(day))
	}
	idx := s.indexOf(day, itemID)
	if idx < 0 {
		return domain.ScheduleItem{}, false, nil
	}
	s.days[day][idx].Active = !s.days[day][idx].Active
	return s.days[day][idx], true, nil
}

// CopyDaySchedule copies the items of one day into another. With Overwrite the target
// list is replaced; otherwise products already on the target are skipped.
func (s *Store) CopyDaySchedule(from, to domain.WeekDay, opts CopyOptions) (CopyResult, error) {
	if !from.Valid() {
		return CopyResult{}, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(from))
	}
	if !to.Valid() {
		return CopyResult{}, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(to))
	}
	if from == to {
		return CopyResult{}, nil
	}

	source := s.days[from]
	var result CopyResult
	if opts.Overwrite {
		copied := make([]domain.ScheduleItem, 0, len(source))
		for _, item := range source {
			copied = append(copied, s.cloneItem(item))
		}
		s.days[to] = copied
		result.Copied = len(copied)
		return result, nil
	}

	for _, item := range source {
		if s.hasProduct(to, item.ProductID) {
			result.Skipped++
			continue
		}
		s.days[to] = append(s.days[to], s.cloneItem(item))
		result.Copied++
	}
	return result, nil
}

// ClearDay removes every item of a day.
func (s *Store) ClearDay(day domain.WeekDay) (int, error) {
	if !day.Valid() {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(day))
	}
	removed := len(s.days[day])
	s.days[day] = []domain.ScheduleItem{}
	return removed, nil
}

// ClearAll resets the week to 7 empty days.
func (s *Store) ClearAll() {
	s.days = domain.NewWeeklySchedule()
}

// RestoreResult reports what Restore had to repair in a saved schedule.
type RestoreResult struct {
	// DroppedDuplicates counts items whose product was already on the same day.
	DroppedDuplicates int `json:"droppedDuplicates"`
	// ReassignedIDs counts items given a fresh id because theirs was empty or repeated in the day.
	ReassignedIDs int `json:"reassignedIds"`
}

// Repaired reports whether the saved schedule differed from what was restored.
func (r RestoreResult) Repaired() bool {
	return r.DroppedDuplicates+r.ReassignedIDs > 0
}

// Restore replaces the state with a saved schedule, recomputing every final price.
// The first item of a product on a day wins; later ones are dropped.
func (s *Store) Restore(saved domain.WeeklySchedule) RestoreResult {
	var res RestoreResult
	restored := domain.NewWeeklySchedule()
	for day, items := range saved {
		products := make(map[int64]struct{}, len(items))
		ids := make(map[string]struct{}, len(items))
		for _, item := range items {
			item.ProductID = item.Product.ID
			if _, dup := products[item.ProductID]; dup {
				res.DroppedDuplicates++
				continue
			}
			products[item.ProductID] = struct{}{}
			if _, dup := ids[item.ID]; dup || item.ID == "" {
				item.ID = s.newID()
				res.ReassignedIDs++
			}
			ids[item.ID] = struct{}{}
			item.FinalPrice = discount.CalculateFinalPrice(item.Product.Price, item.Discount)
			restored[day] = append(restored[day], item)
		}
	}
	s.days = restored
	return res
}

// Statistics derives the week aggregates from current state.
func (s *Store) Statistics() domain.Statistics {
	return ComputeStatistics(s.days)
}

// DayStatistics derives aggregates for one day.
func (s *Store) DayStatistics(day domain.WeekDay) (domain.DayStatistics, error) {
	if !day.Valid() {
		return domain.DayStatistics{}, fmt.Errorf("%w: %d", domain.ErrInvalidDay, int(day))
	}
	return ComputeDayStatistics(day, s.days[day]), nil
}

func (s *Store) cloneItem(item domain.ScheduleItem) domain.ScheduleItem {
	item.ID = s.newID()
	item.AddedAt = s.now()
	item.FinalPrice = discount.CalculateFinalPrice(item.Product.Price, item.Discount)
	return item
}

func (s *Store) indexOf(day domain.WeekDay, itemID string) int {
	for i, item := range s.days[day] {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) hasProduct(day domain.WeekDay, productID int64) bool {
	for _, item := range s.days[day] {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

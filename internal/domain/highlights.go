package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DiscountType tells how a discount value is read.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount describes a reduction applied to a base price.
type Discount struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}

// Product is a catalog entry. The core only reads it.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
}

// ScheduleItem assigns a product snapshot to a day.
type ScheduleItem struct {
	ID         string    `json:"id"`
	ProductID  int64     `json:"productId"`
	Product    Product   `json:"product"`
	Discount   Discount  `json:"discount"`
	FinalPrice float64   `json:"finalPrice"`
	Active     bool      `json:"active"`
	AddedAt    time.Time `json:"addedAt"`
}

// Savings is what the customer saves on this item.
func (i ScheduleItem) Savings() float64 {
	return i.Product.Price - i.FinalPrice
}

// WeeklySchedule holds one ordered list per day. All 7 slots always exist.
type WeeklySchedule [DaysInWeek][]ScheduleItem

// NewWeeklySchedule returns a schedule with 7 empty lists.
func NewWeeklySchedule() WeeklySchedule {
	var s WeeklySchedule
	for i := range s {
		s[i] = []ScheduleItem{}
	}
	return s
}

// Clone returns a deep copy.
func (s WeeklySchedule) Clone() WeeklySchedule {
	var out WeeklySchedule
	for i, items := range s {
		out[i] = append(make([]ScheduleItem, 0, len(items)), items...)
	}
	return out
}

// MarshalJSON writes the schedule as an object keyed by day id.
func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := make(map[string][]ScheduleItem, DaysInWeek)
	for i, items := range s {
		if items == nil {
			items = []ScheduleItem{}
		}
		out[strconv.Itoa(i)] = items
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an object keyed by day id. Missing days become empty lists.
func (s *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string][]ScheduleItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := NewWeeklySchedule()
	for key, items := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDay, key)
		}
		day, err := ParseWeekDay(id)
		if err != nil {
			return err
		}
		if items != nil {
			decoded[day] = items
		}
	}
	*s = decoded
	return nil
}

// HighlightsConfig is the singleton configuration of the highlights feature.
type HighlightsConfig struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ConfigPatch is a partial update; nil fields are left untouched.
type ConfigPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// Statistics is derived from a WeeklySchedule on every read.
type Statistics struct {
	TotalProducts     int      `json:"totalProducts"`
	ActiveProducts    int      `json:"activeProducts"`
	DaysWithProducts  int      `json:"daysWithProducts"`
	TotalSavings      float64  `json:"totalSavings"`
	AverageDiscount   float64  `json:"averageDiscount"`
	MostProductiveDay *WeekDay `json:"mostProductiveDay"`
}

// DayStatistics aggregates a single day.
type DayStatistics struct {
	Day             WeekDay `json:"day"`
	TotalProducts   int     `json:"totalProducts"`
	ActiveProducts  int     `json:"activeProducts"`
	TotalSavings    float64 `json:"totalSavings"`
	AverageDiscount float64 `json:"averageDiscount"`
}

// Snapshot is the persisted session state.
type Snapshot struct {
	Config         HighlightsConfig `json:"config"`
	WeeklySchedule WeeklySchedule   `json:"weeklySchedule"`
	SavedAt        time.Time        `json:"savedAt"`
}

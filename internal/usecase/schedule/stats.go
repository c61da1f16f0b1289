package schedule

import (
	"github.com/shopspring/decimal"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/usecase/discount"
)

// ComputeStatistics aggregates a schedule. Only active items count towards savings,
// average discount and the most productive day.
func ComputeStatistics(week domain.WeeklySchedule) domain.Statistics {
	var stats domain.Statistics
	savings := decimal.Zero
	pctSum := decimal.Zero
	bestDay, bestActive := -1, 0
	for day, items := range week {
		if len(items) > 0 {
			stats.DaysWithProducts++
		}
		stats.TotalProducts += len(items)

		active := 0
		for _, item := range items {
			if !item.Active {
				continue
			}
			active++
			savings = savings.Add(itemSavings(item))
			pctSum = pctSum.Add(decimal.NewFromFloat(discount.EquivalentPercentage(item.Product.Price, item.Discount)))
		}
		stats.ActiveProducts += active
		if active > bestActive {
			bestActive = active
			bestDay = day
		}
	}

	stats.TotalSavings, _ = savings.Round(2).Float64()
	if stats.ActiveProducts > 0 {
		stats.AverageDiscount, _ = pctSum.Div(decimal.NewFromInt(int64(stats.ActiveProducts))).Round(2).Float64()
	}
	if bestDay >= 0 {
		d := domain.WeekDay(bestDay)
		stats.MostProductiveDay = &d
	}
	return stats
}

// ComputeDayStatistics aggregates a single day.
func ComputeDayStatistics(day domain.WeekDay, items []domain.ScheduleItem) domain.DayStatistics {
	stats := domain.DayStatistics{Day: day, TotalProducts: len(items)}
	savings := decimal.Zero
	pctSum := decimal.Zero
	for _, item := range items {
		if !item.Active {
			continue
		}
		stats.ActiveProducts++
		savings = savings.Add(itemSavings(item))
		pctSum = pctSum.Add(decimal.NewFromFloat(discount.EquivalentPercentage(item.Product.Price, item.Discount)))
	}
	stats.TotalSavings, _ = savings.Round(2).Float64()
	if stats.ActiveProducts > 0 {
		stats.AverageDiscount, _ = pctSum.Div(decimal.NewFromInt(int64(stats.ActiveProducts))).Round(2).Float64()
	}
	return stats
}

func itemSavings(item domain.ScheduleItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Product.Price).Sub(decimal.NewFromFloat(item.FinalPrice))
}

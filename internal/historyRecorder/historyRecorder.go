// Package historyRecorder keeps at most one price point per trading day.
package historyRecorder

import (
	"slices"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/marketClock"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
)

// Record amends the point of now's trading day or appends a new one.
// The passed slice is left untouched and prior days keep their order.
func Record(history []model.PricePoint, price decimal.Decimal, now time.Time) []model.PricePoint {
	updated := slices.Clone(history)
	day := marketClock.TradingDay(now)

	for i := range updated {
		if marketClock.TradingDay(updated[i].Date).Equal(day) {
			updated[i].Price = price
			updated[i].Date = now
			return updated
		}
	}

	return append(updated, model.PricePoint{Date: now, Price: price})
}

package performanceCalculator

import (
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func history(prices ...float64) []model.PricePoint {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	res := make([]model.PricePoint, 0, len(prices))
	for i, p := range prices {
		res = append(res, model.PricePoint{Date: start.AddDate(0, 0, i), Price: d(p)})
	}
	return res
}

func TestComputeAsset_Example(t *testing.T) {
	asset := model.Asset{
		ID:           uuid.New(),
		Symbol:       "TCS.BSE",
		Quantity:     d(10),
		AveragePrice: d(100),
		CurrentPrice: d(120),
		PriceHistory: history(110, 120),
	}

	got := ComputeAsset(asset)

	assert.True(t, got.Value.Equal(d(1200)))
	assert.True(t, got.Cost.Equal(d(1000)))
	assert.True(t, got.Profit.Equal(d(200)))
	assert.True(t, got.ProfitPercentage.Equal(d(20)))
	require.NotNil(t, got.DayChange)
	assert.InDelta(t, 9.0909, got.DayChange.InexactFloat64(), 1e-4)
	assert.Equal(t, asset.ID, got.ID)
}

func TestComputeAsset_ZeroCostGuard(t *testing.T) {
	got := ComputeAsset(model.Asset{Quantity: d(5), AveragePrice: decimal.Zero, CurrentPrice: d(50)})

	assert.True(t, got.ProfitPercentage.IsZero())
	assert.True(t, got.Profit.Equal(d(250)))

	got = ComputeAsset(model.Asset{Quantity: decimal.Zero, AveragePrice: d(10), CurrentPrice: d(50)})
	assert.True(t, got.ProfitPercentage.IsZero())
}

func TestComputeAsset_DayChangeUndefined(t *testing.T) {
	assert.Nil(t, ComputeAsset(model.Asset{CurrentPrice: d(10)}).DayChange)
	assert.Nil(t, ComputeAsset(model.Asset{CurrentPrice: d(10), PriceHistory: history(10)}).DayChange)
	assert.Nil(t, ComputeAsset(model.Asset{CurrentPrice: d(10), PriceHistory: history(0, 10)}).DayChange)
}

func TestComputePortfolio_Totals(t *testing.T) {
	p := model.Portfolio{
		ID:   uuid.New(),
		Name: "main",
		Assets: []model.Asset{
			{Symbol: "A", Quantity: d(10), AveragePrice: d(100), CurrentPrice: d(120), PriceHistory: history(100, 120)},
			{Symbol: "B", Quantity: d(2), AveragePrice: d(400), CurrentPrice: d(400), PriceHistory: history(500, 400)},
			{Symbol: "C", Quantity: d(1), AveragePrice: d(100), CurrentPrice: d(100)},
		},
	}

	view := ComputePortfolio(p)

	assert.Equal(t, p.ID, view.PortfolioID)
	assert.Equal(t, "main", view.PortfolioName)
	require.Len(t, view.Assets, 3)
	assert.True(t, view.TotalValue.Equal(d(2100)))
	assert.True(t, view.TotalCost.Equal(d(1900)))
	assert.True(t, view.TotalProfit.Equal(d(200)))
	assert.InDelta(t, 10.5263, view.TotalProfitPercentage.InexactFloat64(), 1e-4)

	// A: +20% on 1200, B: -20% on 800, C excluded -> (240 - 160) / 2000
	require.NotNil(t, view.DayChange)
	assert.InDelta(t, 4.0, view.DayChange.InexactFloat64(), 1e-9)
}

func TestComputePortfolio_NoDayChanges(t *testing.T) {
	view := ComputePortfolio(model.Portfolio{Assets: []model.Asset{
		{Quantity: d(1), AveragePrice: d(10), CurrentPrice: d(12)},
	}})
	assert.Nil(t, view.DayChange)
}

func TestComputePortfolio_Empty(t *testing.T) {
	view := ComputePortfolio(model.Portfolio{})

	assert.True(t, view.TotalValue.IsZero())
	assert.True(t, view.TotalProfitPercentage.IsZero())
	assert.Nil(t, view.DayChange)
	assert.Empty(t, view.Assets)
}

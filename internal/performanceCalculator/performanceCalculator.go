package performanceCalculator

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func ComputeAsset(asset model.Asset) model.AssetPerformance {
	value := asset.Quantity.Mul(asset.CurrentPrice)
	cost := asset.Quantity.Mul(asset.AveragePrice)
	profit := value.Sub(cost)

	return model.AssetPerformance{
		ID:               asset.ID,
		Symbol:           asset.Symbol,
		Quantity:         asset.Quantity,
		AveragePrice:     asset.AveragePrice,
		CurrentPrice:     asset.CurrentPrice,
		Value:            value,
		Cost:             cost,
		Profit:           profit,
		ProfitPercentage: percentOf(profit, cost),
		DayChange:        dayChange(asset),
		PriceHistory:     asset.PriceHistory,
	}
}

// ComputePortfolio aggregates per-asset figures. The portfolio day change is the
// value-weighted mean over assets that have one, weights taken from final totals.
func ComputePortfolio(portfolio model.Portfolio) model.PerformanceView {
	view := model.PerformanceView{
		PortfolioID:   portfolio.ID,
		PortfolioName: portfolio.Name,
		Assets:        make([]model.AssetPerformance, 0, len(portfolio.Assets)),
	}

	for _, asset := range portfolio.Assets {
		perf := ComputeAsset(asset)
		view.TotalValue = view.TotalValue.Add(perf.Value)
		view.TotalCost = view.TotalCost.Add(perf.Cost)
		view.Assets = append(view.Assets, perf)
	}

	view.TotalProfit = view.TotalValue.Sub(view.TotalCost)
	view.TotalProfitPercentage = percentOf(view.TotalProfit, view.TotalCost)
	view.DayChange = weightedDayChange(view.Assets, view.TotalValue)

	return view
}

func weightedDayChange(assets []model.AssetPerformance, totalValue decimal.Decimal) *decimal.Decimal {
	if totalValue.IsZero() {
		return nil
	}

	var weighted, weightSum decimal.Decimal
	for _, a := range assets {
		if a.DayChange == nil {
			continue
		}
		weight := a.Value.Div(totalValue)
		weighted = weighted.Add(a.DayChange.Mul(weight))
		weightSum = weightSum.Add(weight)
	}

	if weightSum.IsZero() {
		return nil
	}

	res := weighted.Div(weightSum)
	return &res
}

// dayChange compares the current price with the second to last history point.
func dayChange(asset model.Asset) *decimal.Decimal {
	n := len(asset.PriceHistory)
	if n < 2 {
		return nil
	}

	prev := asset.PriceHistory[n-2].Price
	if prev.IsZero() {
		return nil
	}

	res := asset.CurrentPrice.Sub(prev).Div(prev).Mul(hundred)
	return &res
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

package httpConverter

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/httpModel"
	"github.com/shopspring/decimal"
)

func ConvertPortfolio(p model.Portfolio) httpModel.Portfolio {
	res := httpModel.Portfolio{
		ID:                p.ID.String(),
		Owner:             p.OwnerID,
		Name:              p.Name,
		IsFamilyPortfolio: p.IsFamilyPortfolio,
		FamilyMember:      p.FamilyMemberID,
		Assets:            make([]httpModel.Asset, 0, len(p.Assets)),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	for _, a := range p.Assets {
		res.Assets = append(res.Assets, httpModel.Asset{
			ID:           a.ID.String(),
			Symbol:       a.Symbol,
			Quantity:     a.Quantity.InexactFloat64(),
			AveragePrice: a.AveragePrice.InexactFloat64(),
			CurrentPrice: a.CurrentPrice.InexactFloat64(),
			PriceHistory: convertHistory(a.PriceHistory),
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.UpdatedAt,
		})
	}

	return res
}

func ConvertPortfolioList(list model.OwnerPortfolios) httpModel.PortfolioList {
	res := httpModel.PortfolioList{
		OwnPortfolios:    make([]httpModel.Portfolio, 0, len(list.Own)),
		FamilyPortfolios: make([]httpModel.Portfolio, 0, len(list.Family)),
	}
	for _, p := range list.Own {
		res.OwnPortfolios = append(res.OwnPortfolios, ConvertPortfolio(p))
	}
	for _, p := range list.Family {
		res.FamilyPortfolios = append(res.FamilyPortfolios, ConvertPortfolio(p))
	}
	return res
}

func ConvertPerformance(view model.PerformanceView) httpModel.Performance {
	res := httpModel.Performance{
		PortfolioID:           view.PortfolioID.String(),
		PortfolioName:         view.PortfolioName,
		TotalValue:            view.TotalValue.InexactFloat64(),
		TotalCost:             view.TotalCost.InexactFloat64(),
		TotalProfit:           view.TotalProfit.InexactFloat64(),
		TotalProfitPercentage: view.TotalProfitPercentage.InexactFloat64(),
		DayChange:             optionalFloat(view.DayChange),
		Assets:                make([]httpModel.AssetPerformance, 0, len(view.Assets)),
	}

	for _, a := range view.Assets {
		res.Assets = append(res.Assets, httpModel.AssetPerformance{
			ID:               a.ID.String(),
			Symbol:           a.Symbol,
			Quantity:         a.Quantity.InexactFloat64(),
			AveragePrice:     a.AveragePrice.InexactFloat64(),
			CurrentPrice:     a.CurrentPrice.InexactFloat64(),
			Value:            a.Value.InexactFloat64(),
			Cost:             a.Cost.InexactFloat64(),
			Profit:           a.Profit.InexactFloat64(),
			ProfitPercentage: a.ProfitPercentage.InexactFloat64(),
			DayChange:        optionalFloat(a.DayChange),
			PriceHistory:     convertHistory(a.PriceHistory),
		})
	}

	return res
}

func convertHistory(history []model.PricePoint) []httpModel.PricePoint {
	res := make([]httpModel.PricePoint, 0, len(history))
	for _, p := range history {
		res = append(res, httpModel.PricePoint{Date: p.Date, Price: p.Price.InexactFloat64()})
	}
	return res
}

func optionalFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

package dbConverter

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/dbModel"
	"github.com/google/uuid"
)

func ConvertPortfolio(dbPortfolio dbModel.Portfolio, assets []model.Asset) model.Portfolio {
	return model.Portfolio{
		ID:                dbPortfolio.PortfolioID,
		OwnerID:           dbPortfolio.OwnerID,
		Name:              dbPortfolio.Name,
		IsFamilyPortfolio: dbPortfolio.IsFamilyPortfolio,
		FamilyMemberID:    dbPortfolio.FamilyMemberID,
		Assets:            assets,
		CreatedAt:         dbPortfolio.DtCreate,
		UpdatedAt:         dbPortfolio.DtUpdate,
	}
}

func ConvertAsset(dbAsset dbModel.Asset, history []dbModel.PricePoint) model.Asset {
	asset := model.Asset{
		ID:           dbAsset.AssetID,
		Symbol:       dbAsset.Symbol,
		Quantity:     dbAsset.Quantity,
		AveragePrice: dbAsset.AveragePrice,
		CurrentPrice: dbAsset.CurrentPrice,
		PriceHistory: make([]model.PricePoint, 0, len(history)),
		CreatedAt:    dbAsset.DtCreate,
		UpdatedAt:    dbAsset.DtUpdate,
	}
	for _, p := range history {
		asset.PriceHistory = append(asset.PriceHistory, model.PricePoint{Date: p.Dt, Price: p.Price})
	}
	return asset
}

func ToDbPortfolio(portfolio model.Portfolio) dbModel.Portfolio {
	return dbModel.Portfolio{
		PortfolioID:       portfolio.ID,
		OwnerID:           portfolio.OwnerID,
		Name:              portfolio.Name,
		IsFamilyPortfolio: portfolio.IsFamilyPortfolio,
		FamilyMemberID:    portfolio.FamilyMemberID,
		DtCreate:          portfolio.CreatedAt,
		DtUpdate:          portfolio.UpdatedAt,
	}
}

// ToDbAssets flattens assets and their history, keeping the stored order in ordinals.
func ToDbAssets(portfolioID uuid.UUID, assets []model.Asset) ([]dbModel.Asset, []dbModel.PricePoint) {
	dbAssets := make([]dbModel.Asset, 0, len(assets))
	var history []dbModel.PricePoint

	for i, a := range assets {
		dbAssets = append(dbAssets, dbModel.Asset{
			AssetID:      a.ID,
			PortfolioID:  portfolioID,
			Ordinal:      i,
			Symbol:       a.Symbol,
			Quantity:     a.Quantity,
			AveragePrice: a.AveragePrice,
			CurrentPrice: a.CurrentPrice,
			DtCreate:     a.CreatedAt,
			DtUpdate:     a.UpdatedAt,
		})
		history = append(history, ToDbPriceHistory(a)...)
	}

	return dbAssets, history
}

func ToDbPriceHistory(asset model.Asset) []dbModel.PricePoint {
	history := make([]dbModel.PricePoint, 0, len(asset.PriceHistory))
	for i, p := range asset.PriceHistory {
		history = append(history, dbModel.PricePoint{AssetID: asset.ID, Ordinal: i, Dt: p.Date, Price: p.Price})
	}
	return history
}

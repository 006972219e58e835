package mongoConverter

import (
	"fmt"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/mongoModel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ToDocument(p model.Portfolio) (mongoModel.Portfolio, error) {
	doc := mongoModel.Portfolio{
		ID:                p.ID.String(),
		OwnerID:           p.OwnerID,
		Name:              p.Name,
		IsFamilyPortfolio: p.IsFamilyPortfolio,
		FamilyMemberID:    p.FamilyMemberID,
		Assets:            make([]mongoModel.Asset, 0, len(p.Assets)),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	for _, a := range p.Assets {
		asset, err := ToAssetDocument(a)
		if err != nil {
			return mongoModel.Portfolio{}, err
		}
		doc.Assets = append(doc.Assets, asset)
	}

	return doc, nil
}

func ToAssetDocument(a model.Asset) (mongoModel.Asset, error) {
	asset := mongoModel.Asset{
		ID:           a.ID.String(),
		Symbol:       a.Symbol,
		PriceHistory: make([]mongoModel.PricePoint, 0, len(a.PriceHistory)),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	var err error
	if asset.Quantity, err = toDecimal128(a.Quantity); err != nil {
		return mongoModel.Asset{}, err
	}
	if asset.AveragePrice, err = toDecimal128(a.AveragePrice); err != nil {
		return mongoModel.Asset{}, err
	}
	if asset.CurrentPrice, err = toDecimal128(a.CurrentPrice); err != nil {
		return mongoModel.Asset{}, err
	}

	for _, point := range a.PriceHistory {
		price, err := toDecimal128(point.Price)
		if err != nil {
			return mongoModel.Asset{}, err
		}
		asset.PriceHistory = append(asset.PriceHistory, mongoModel.PricePoint{Date: point.Date, Price: price})
	}

	return asset, nil
}

func FromDocument(doc mongoModel.Portfolio) (model.Portfolio, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("portfolio id %q: %w", doc.ID, err)
	}

	p := model.Portfolio{
		ID:                id,
		OwnerID:           doc.OwnerID,
		Name:              doc.Name,
		IsFamilyPortfolio: doc.IsFamilyPortfolio,
		FamilyMemberID:    doc.FamilyMemberID,
		Assets:            make([]model.Asset, 0, len(doc.Assets)),
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}

	for _, a := range doc.Assets {
		assetID, err := uuid.Parse(a.ID)
		if err != nil {
			return model.Portfolio{}, fmt.Errorf("asset id %q: %w", a.ID, err)
		}

		asset := model.Asset{
			ID:           assetID,
			Symbol:       a.Symbol,
			PriceHistory: make([]model.PricePoint, 0, len(a.PriceHistory)),
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.UpdatedAt,
		}

		if asset.Quantity, err = fromDecimal128(a.Quantity); err != nil {
			return model.Portfolio{}, err
		}
		if asset.AveragePrice, err = fromDecimal128(a.AveragePrice); err != nil {
			return model.Portfolio{}, err
		}
		if asset.CurrentPrice, err = fromDecimal128(a.CurrentPrice); err != nil {
			return model.Portfolio{}, err
		}

		for _, point := range a.PriceHistory {
			price, err := fromDecimal128(point.Price)
			if err != nil {
				return model.Portfolio{}, err
			}
			asset.PriceHistory = append(asset.PriceHistory, model.PricePoint{Date: point.Date, Price: price})
		}

		p.Assets = append(p.Assets, asset)
	}

	return p, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	res, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d.String(), err)
	}
	return res, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	res, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert decimal128 %s: %w", d.String(), err)
	}
	return res, nil
}

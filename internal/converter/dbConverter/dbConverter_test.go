package dbConverter

import (
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDbAssets_KeepsOrder(t *testing.T) {
	portfolioID := uuid.New()
	day := time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC)
	assets := []model.Asset{
		{ID: uuid.New(), Symbol: "B", PriceHistory: []model.PricePoint{
			{Date: day, Price: decimal.NewFromInt(1)},
			{Date: day.AddDate(0, 0, 1), Price: decimal.NewFromInt(2)},
		}},
		{ID: uuid.New(), Symbol: "A"},
	}

	dbAssets, history := ToDbAssets(portfolioID, assets)

	require.Len(t, dbAssets, 2)
	assert.Equal(t, 0, dbAssets[0].Ordinal)
	assert.Equal(t, "B", dbAssets[0].Symbol)
	assert.Equal(t, 1, dbAssets[1].Ordinal)
	assert.Equal(t, portfolioID, dbAssets[1].PortfolioID)

	require.Len(t, history, 2)
	assert.Equal(t, assets[0].ID, history[1].AssetID)
	assert.Equal(t, 1, history[1].Ordinal)

	back := ConvertAsset(dbAssets[0], history)
	require.Len(t, back.PriceHistory, 2)
	assert.True(t, back.PriceHistory[1].Price.Equal(decimal.NewFromInt(2)))
}

package mongoConverter

import (
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/mongoModel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	member := "member-1"
	now := time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC)
	p := model.Portfolio{
		ID:                uuid.New(),
		OwnerID:           "owner-1",
		Name:              "family",
		IsFamilyPortfolio: true,
		FamilyMemberID:    &member,
		CreatedAt:         now,
		UpdatedAt:         now,
		Assets: []model.Asset{{
			ID:           uuid.New(),
			Symbol:       "TCS.BSE",
			Quantity:     decimal.RequireFromString("2.5"),
			AveragePrice: decimal.RequireFromString("3100.10"),
			CurrentPrice: decimal.RequireFromString("3456.7"),
			PriceHistory: []model.PricePoint{{Date: now, Price: decimal.RequireFromString("3456.7")}},
		}},
	}

	doc, err := ToDocument(p)
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), doc.ID)
	assert.Equal(t, "2.5", doc.Assets[0].Quantity.String())

	back, err := FromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, p.OwnerID, back.OwnerID)
	assert.Equal(t, member, *back.FamilyMemberID)
	require.Len(t, back.Assets, 1)
	assert.True(t, back.Assets[0].AveragePrice.Equal(p.Assets[0].AveragePrice))
	assert.True(t, back.Assets[0].PriceHistory[0].Price.Equal(p.Assets[0].CurrentPrice))
}

func TestFromDocument_BadID(t *testing.T) {
	_, err := FromDocument(mongoModel.Portfolio{ID: "not-a-uuid"})
	assert.Error(t, err)
}

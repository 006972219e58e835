package httpModel

import "time"

type CreatePortfolioRequest struct {
	Name              string  `json:"name" binding:"required"`
	IsFamilyPortfolio bool    `json:"isFamilyPortfolio"`
	FamilyMemberID    *string `json:"familyMemberId"`
}

// AddAssetRequest keeps numbers as float64 on the wire; positivity is checked by the service.
type AddAssetRequest struct {
	Symbol       string  `json:"symbol" binding:"required"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"averagePrice"`
}

type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

type Asset struct {
	ID           string       `json:"id"`
	Symbol       string       `json:"symbol"`
	Quantity     float64      `json:"quantity"`
	AveragePrice float64      `json:"averagePrice"`
	CurrentPrice float64      `json:"currentPrice"`
	PriceHistory []PricePoint `json:"priceHistory"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type Portfolio struct {
	ID                string    `json:"id"`
	Owner             string    `json:"owner"`
	Name              string    `json:"name"`
	IsFamilyPortfolio bool      `json:"isFamilyPortfolio"`
	FamilyMember      *string   `json:"familyMember"`
	Assets            []Asset   `json:"assets"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type PortfolioList struct {
	OwnPortfolios    []Portfolio `json:"ownPortfolios"`
	FamilyPortfolios []Portfolio `json:"familyPortfolios"`
}

type AssetPerformance struct {
	ID               string       `json:"id"`
	Symbol           string       `json:"symbol"`
	Quantity         float64      `json:"quantity"`
	AveragePrice     float64      `json:"averagePrice"`
	CurrentPrice     float64      `json:"currentPrice"`
	Value            float64      `json:"value"`
	Cost             float64      `json:"cost"`
	Profit           float64      `json:"profit"`
	ProfitPercentage float64      `json:"profitPercentage"`
	DayChange        *float64     `json:"dayChange"`
	PriceHistory     []PricePoint `json:"priceHistory"`
}

type Performance struct {
	PortfolioID           string             `json:"portfolioId"`
	PortfolioName         string             `json:"portfolioName"`
	TotalValue            float64            `json:"totalValue"`
	TotalCost             float64            `json:"totalCost"`
	TotalProfit           float64            `json:"totalProfit"`
	TotalProfitPercentage float64            `json:"totalProfitPercentage"`
	DayChange             *float64           `json:"dayChange"`
	Assets                []AssetPerformance `json:"assets"`
}

type Error struct {
	Error string `json:"error"`
}

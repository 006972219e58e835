package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetPerformance struct {
	ID               uuid.UUID
	Symbol           string
	Quantity         decimal.Decimal
	AveragePrice     decimal.Decimal
	CurrentPrice     decimal.Decimal
	Value            decimal.Decimal
	Cost             decimal.Decimal
	Profit           decimal.Decimal
	ProfitPercentage decimal.Decimal
	DayChange        *decimal.Decimal // nil when history has < 2 points
	PriceHistory     []PricePoint
}

type PerformanceView struct {
	PortfolioID           uuid.UUID
	PortfolioName         string
	TotalValue            decimal.Decimal
	TotalCost             decimal.Decimal
	TotalProfit           decimal.Decimal
	TotalProfitPercentage decimal.Decimal
	DayChange             *decimal.Decimal
	Assets                []AssetPerformance
}

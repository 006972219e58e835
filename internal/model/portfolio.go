package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultPortfolioName = "My Portfolio"

type PricePoint struct {
	Date  time.Time
	Price decimal.Decimal
}

type Asset struct {
	ID           uuid.UUID
	Symbol       string
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
	CurrentPrice decimal.Decimal
	PriceHistory []PricePoint
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Portfolio struct {
	ID                uuid.UUID
	OwnerID           string
	Name              string
	IsFamilyPortfolio bool
	FamilyMemberID    *string
	Assets            []Asset
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanRead reports whether userID is the owner or the delegated family member.
func (p Portfolio) CanRead(userID string) bool {
	if p.OwnerID == userID {
		return true
	}
	return p.FamilyMemberID != nil && *p.FamilyMemberID == userID
}

type OwnerPortfolios struct {
	Own    []Portfolio
	Family []Portfolio
}

// BaseSymbol strips the exchange suffix: "TCS.BSE" -> "TCS".
func BaseSymbol(symbol string) string {
	base, _, _ := strings.Cut(symbol, ".")
	return base
}

// NormalizeSymbol trims and upper-cases a user supplied symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

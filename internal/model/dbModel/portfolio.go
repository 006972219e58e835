package dbModel

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Portfolio struct {
	PortfolioID       uuid.UUID `db:"portfolio_id"`
	OwnerID           string    `db:"owner_id"`
	Name              string    `db:"name"`
	IsFamilyPortfolio bool      `db:"is_family_portfolio"`
	FamilyMemberID    *string   `db:"family_member_id"`
	DtCreate          time.Time `db:"dt_create"`
	DtUpdate          time.Time `db:"dt_update"`
}

type Asset struct {
	AssetID      uuid.UUID       `db:"asset_id"`
	PortfolioID  uuid.UUID       `db:"portfolio_id"`
	Ordinal      int             `db:"ordinal"`
	Symbol       string          `db:"symbol"`
	Quantity     decimal.Decimal `db:"quantity"`
	AveragePrice decimal.Decimal `db:"average_price"`
	CurrentPrice decimal.Decimal `db:"current_price"`
	DtCreate     time.Time       `db:"dt_create"`
	DtUpdate     time.Time       `db:"dt_update"`
}

type PricePoint struct {
	AssetID uuid.UUID       `db:"asset_id"`
	Ordinal int             `db:"ordinal"`
	Dt      time.Time       `db:"dt"`
	Price   decimal.Decimal `db:"price"`
}

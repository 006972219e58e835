package mongoModel

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Portfolio struct {
	ID                string    `bson:"_id"`
	OwnerID           string    `bson:"owner"`
	Name              string    `bson:"name"`
	IsFamilyPortfolio bool      `bson:"isFamilyPortfolio"`
	FamilyMemberID    *string   `bson:"familyMember,omitempty"`
	Assets            []Asset   `bson:"assets"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

type Asset struct {
	ID           string               `bson:"_id"`
	Symbol       string               `bson:"symbol"`
	Quantity     primitive.Decimal128 `bson:"quantity"`
	AveragePrice primitive.Decimal128 `bson:"averagePrice"`
	CurrentPrice primitive.Decimal128 `bson:"currentPrice"`
	PriceHistory []PricePoint         `bson:"priceHistory"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
}

type PricePoint struct {
	Date  time.Time            `bson:"date"`
	Price primitive.Decimal128 `bson:"price"`
}

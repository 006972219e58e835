package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/converter/mongoConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/mongoModel"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const portfoliosCollection = "portfolios"

type Mongo struct {
	portfolios *mongo.Collection
}

func New(db *mongo.Database) *Mongo {
	return &Mongo{portfolios: db.Collection(portfoliosCollection)}
}

func (m *Mongo) CreatePortfolio(ctx context.Context, portfolio model.Portfolio) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("portfolioID", portfolio.ID.String()))
	defer func() {
		if err != nil {
			slog.Error("CreatePortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreatePortfolio completed", slog.String("rqID", rqID))
		}
	}()

	doc, err := mongoConverter.ToDocument(portfolio)
	if err != nil {
		return err
	}

	if _, err = m.portfolios.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return fmt.Errorf("insert portfolio: %w", err)
	}

	return nil
}

func (m *Mongo) GetPortfolio(ctx context.Context, portfolioID uuid.UUID) (portfolio model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("portfolioID", portfolioID.String()))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("GetPortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolio completed", slog.String("rqID", rqID))
		}
	}()

	var doc mongoModel.Portfolio
	err = m.portfolios.FindOne(ctx, bson.M{"_id": portfolioID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Portfolio{}, repository.ErrNotFound
		}
		return model.Portfolio{}, fmt.Errorf("find portfolio: %w", err)
	}

	return mongoConverter.FromDocument(doc)
}

func (m *Mongo) GetPortfoliosByOwner(ctx context.Context, ownerID string) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetPortfoliosByOwner start", slog.String("rqID", rqID))
	defer func() {
		if err != nil {
			slog.Error("GetPortfoliosByOwner failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfoliosByOwner completed", slog.String("rqID", rqID), slog.Int("count", len(portfolios)))
		}
	}()

	return m.find(ctx, bson.M{"owner": ownerID})
}

// GetPortfoliosWithAssets returns every portfolio holding at least one asset in load order.
func (m *Mongo) GetPortfoliosWithAssets(ctx context.Context) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetPortfoliosWithAssets start", slog.String("rqID", rqID))
	defer func() {
		if err != nil {
			slog.Error("GetPortfoliosWithAssets failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfoliosWithAssets completed", slog.String("rqID", rqID), slog.Int("count", len(portfolios)))
		}
	}()

	return m.find(ctx, bson.M{"assets.0": bson.M{"$exists": true}})
}

func (m *Mongo) SavePortfolio(ctx context.Context, portfolio model.Portfolio) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SavePortfolio start", slog.String("rqID", rqID), slog.String("portfolioID", portfolio.ID.String()))
	defer func() {
		if err != nil {
			slog.Error("SavePortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("SavePortfolio completed", slog.String("rqID", rqID))
		}
	}()

	doc, err := mongoConverter.ToDocument(portfolio)
	if err != nil {
		return err
	}

	res, err := m.portfolios.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("replace portfolio: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateAssetPrices sets current price and history of the given assets only.
// Assets deleted from the portfolio in the meantime are skipped.
func (m *Mongo) UpdateAssetPrices(ctx context.Context, portfolioID uuid.UUID, assets []model.Asset, updatedAt time.Time) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("UpdateAssetPrices start", slog.String("rqID", rqID), slog.String("portfolioID", portfolioID.String()), slog.Int("assets", len(assets)))
	defer func() {
		if err != nil {
			slog.Error("UpdateAssetPrices failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateAssetPrices completed", slog.String("rqID", rqID))
		}
	}()

	for _, asset := range assets {
		doc, err := mongoConverter.ToAssetDocument(asset)
		if err != nil {
			return err
		}

		filter := bson.M{"_id": portfolioID.String(), "assets._id": doc.ID}
		update := bson.M{"$set": bson.M{
			"assets.$.currentPrice": doc.CurrentPrice,
			"assets.$.priceHistory": doc.PriceHistory,
			"assets.$.updatedAt":    doc.UpdatedAt,
			"updatedAt":             updatedAt,
		}}

		res, err := m.portfolios.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("update asset price: %w", err)
		}
		if res.MatchedCount == 0 {
			slog.Info("asset is gone, price update skipped", slog.String("rqID", rqID), slog.String("assetID", doc.ID))
		}
	}

	return nil
}

func (m *Mongo) find(ctx context.Context, filter bson.M) ([]model.Portfolio, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := m.portfolios.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find portfolios: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoModel.Portfolio
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode portfolios: %w", err)
	}

	portfolios := make([]model.Portfolio, 0, len(docs))
	for _, doc := range docs {
		p, err := mongoConverter.FromDocument(doc)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	return portfolios, nil
}

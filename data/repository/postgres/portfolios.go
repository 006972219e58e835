package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/dbModel"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
)

const portfolioColumns = `portfolio_id, owner_id, name, is_family_portfolio, family_member_id, dt_create, dt_update`

func (r *Postgres) CreatePortfolio(ctx context.Context, portfolio model.Portfolio) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO portfolios (portfolio_id, owner_id, name, is_family_portfolio, family_member_id, dt_create, dt_update)
		VALUES (:portfolio_id, :owner_id, :name, :is_family_portfolio, :family_member_id, :dt_create, :dt_update)`

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("portfolioID", portfolio.ID.String()))
	defer func() {
		if err != nil {
			slog.Error("CreatePortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreatePortfolio completed", slog.String("rqID", rqID))
		}
	}()

	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := r.txOrDb(ctx).NamedExecContext(ctx, query, dbConverter.ToDbPortfolio(portfolio))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return repository.ErrAlreadyExists
			}
			return fmt.Errorf("insert portfolio: %w", err)
		}
		return r.insertAssets(ctx, portfolio.ID, portfolio.Assets)
	})
}

func (r *Postgres) GetPortfolio(ctx context.Context, portfolioID uuid.UUID) (portfolio model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE portfolio_id = $1`

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("portfolioID", portfolioID.String()))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("GetPortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolio completed", slog.String("rqID", rqID))
		}
	}()

	var row dbModel.Portfolio
	err = r.txOrDb(ctx).GetContext(ctx, &row, query, portfolioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Portfolio{}, repository.ErrNotFound
		}
		return model.Portfolio{}, fmt.Errorf("select portfolio: %w", err)
	}

	portfolios, err := r.attachAssets(ctx, []dbModel.Portfolio{row})
	if err != nil {
		return model.Portfolio{}, err
	}

	return portfolios[0], nil
}

func (r *Postgres) GetPortfoliosByOwner(ctx context.Context, ownerID string) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE owner_id = $1 ORDER BY dt_create, portfolio_id`

	slog.Debug("GetPortfoliosByOwner start", slog.String("rqID", rqID))
	defer func() {
		if err != nil {
			slog.Error("GetPortfoliosByOwner failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfoliosByOwner completed", slog.String("rqID", rqID), slog.Int("count", len(portfolios)))
		}
	}()

	var rows []dbModel.Portfolio
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("select portfolios by owner: %w", err)
	}

	return r.attachAssets(ctx, rows)
}

// GetPortfoliosWithAssets returns every portfolio holding at least one asset in load order.
func (r *Postgres) GetPortfoliosWithAssets(ctx context.Context) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT ` + portfolioColumns + `
		FROM portfolios p
		WHERE EXISTS (SELECT 1 FROM assets a WHERE a.portfolio_id = p.portfolio_id)
		ORDER BY dt_create, portfolio_id`

	slog.Debug("GetPortfoliosWithAssets start", slog.String("rqID", rqID))
	defer func() {
		if err != nil {
			slog.Error("GetPortfoliosWithAssets failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfoliosWithAssets completed", slog.String("rqID", rqID), slog.Int("count", len(portfolios)))
		}
	}()

	var rows []dbModel.Portfolio
	if err = r.txOrDb(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select portfolios with assets: %w", err)
	}

	return r.attachAssets(ctx, rows)
}

// SavePortfolio rewrites the portfolio row together with all its assets and history.
func (r *Postgres) SavePortfolio(ctx context.Context, portfolio model.Portfolio) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	updateQuery := `
		UPDATE portfolios
		SET name = :name, is_family_portfolio = :is_family_portfolio,
			family_member_id = :family_member_id, dt_update = :dt_update
		WHERE portfolio_id = :portfolio_id`
	deleteQuery := `DELETE FROM assets WHERE portfolio_id = $1`

	slog.Debug("SavePortfolio start", slog.String("rqID", rqID), slog.String("portfolioID", portfolio.ID.String()))
	defer func() {
		if err != nil {
			slog.Error("SavePortfolio failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("SavePortfolio completed", slog.String("rqID", rqID))
		}
	}()

	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		res, err := r.txOrDb(ctx).NamedExecContext(ctx, updateQuery, dbConverter.ToDbPortfolio(portfolio))
		if err != nil {
			return fmt.Errorf("update portfolio: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return repository.ErrNotFound
		}

		// история удаляется каскадно вместе с активами
		if _, err = r.txOrDb(ctx).ExecContext(ctx, deleteQuery, portfolio.ID); err != nil {
			return fmt.Errorf("delete assets: %w", err)
		}

		return r.insertAssets(ctx, portfolio.ID, portfolio.Assets)
	})
}

// UpdateAssetPrices writes current price and history of the given assets only.
// Assets deleted from the portfolio in the meantime are skipped.
func (r *Postgres) UpdateAssetPrices(ctx context.Context, portfolioID uuid.UUID, assets []model.Asset, updatedAt time.Time) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	assetQuery := `UPDATE assets SET current_price = $1, dt_update = $2 WHERE asset_id = $3 AND portfolio_id = $4`
	deleteHistoryQuery := `DELETE FROM asset_price_history WHERE asset_id = $1`
	portfolioQuery := `UPDATE portfolios SET dt_update = $1 WHERE portfolio_id = $2`

	slog.Debug("UpdateAssetPrices start", slog.String("rqID", rqID), slog.String("portfolioID", portfolioID.String()), slog.Int("assets", len(assets)))
	defer func() {
		if err != nil {
			slog.Error("UpdateAssetPrices failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateAssetPrices completed", slog.String("rqID", rqID))
		}
	}()

	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, asset := range assets {
			res, err := r.txOrDb(ctx).ExecContext(ctx, assetQuery, asset.CurrentPrice, asset.UpdatedAt, asset.ID, portfolioID)
			if err != nil {
				return fmt.Errorf("update asset price: %w", err)
			}

			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			if affected == 0 {
				slog.Info("asset is gone, price update skipped", slog.String("rqID", rqID), slog.String("assetID", asset.ID.String()))
				continue
			}

			if _, err = r.txOrDb(ctx).ExecContext(ctx, deleteHistoryQuery, asset.ID); err != nil {
				return fmt.Errorf("delete price history: %w", err)
			}
			if err = r.insertHistory(ctx, dbConverter.ToDbPriceHistory(asset)); err != nil {
				return err
			}
		}

		if _, err := r.txOrDb(ctx).ExecContext(ctx, portfolioQuery, updatedAt, portfolioID); err != nil {
			return fmt.Errorf("update portfolio: %w", err)
		}

		return nil
	})
}

func (r *Postgres) insertAssets(ctx context.Context, portfolioID uuid.UUID, assets []model.Asset) error {
	assetsQuery := `
		INSERT INTO assets (asset_id, portfolio_id, ordinal, symbol, quantity, average_price, current_price, dt_create, dt_update)
		VALUES (:asset_id, :portfolio_id, :ordinal, :symbol, :quantity, :average_price, :current_price, :dt_create, :dt_update)`

	dbAssets, history := dbConverter.ToDbAssets(portfolioID, assets)

	// sqlx не принимает пустой слайс в batch insert
	if len(dbAssets) > 0 {
		if _, err := r.txOrDb(ctx).NamedExecContext(ctx, assetsQuery, dbAssets); err != nil {
			return fmt.Errorf("insert assets: %w", err)
		}
	}

	return r.insertHistory(ctx, history)
}

func (r *Postgres) insertHistory(ctx context.Context, history []dbModel.PricePoint) error {
	query := `
		INSERT INTO asset_price_history (asset_id, ordinal, dt, price)
		VALUES (:asset_id, :ordinal, :dt, :price)`

	if len(history) == 0 {
		return nil
	}

	if _, err := r.txOrDb(ctx).NamedExecContext(ctx, query, history); err != nil {
		return fmt.Errorf("insert price history: %w", err)
	}

	return nil
}

// attachAssets loads assets and price history for rows, keeping rows order.
func (r *Postgres) attachAssets(ctx context.Context, rows []dbModel.Portfolio) ([]model.Portfolio, error) {
	portfolios := make([]model.Portfolio, 0, len(rows))
	if len(rows) == 0 {
		return portfolios, nil
	}

	portfolioIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		portfolioIDs = append(portfolioIDs, row.PortfolioID)
	}

	query, args, err := sqlx.In(`
		SELECT asset_id, portfolio_id, ordinal, symbol, quantity, average_price, current_price, dt_create, dt_update
		FROM assets
		WHERE portfolio_id IN (?)
		ORDER BY portfolio_id, ordinal`, portfolioIDs)
	if err != nil {
		return nil, fmt.Errorf("build assets query: %w", err)
	}

	var dbAssets []dbModel.Asset
	if err = r.txOrDb(ctx).SelectContext(ctx, &dbAssets, r.txOrDb(ctx).Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select assets: %w", err)
	}

	historyByAsset := make(map[uuid.UUID][]dbModel.PricePoint, len(dbAssets))
	if len(dbAssets) > 0 {
		assetIDs := make([]uuid.UUID, 0, len(dbAssets))
		for _, a := range dbAssets {
			assetIDs = append(assetIDs, a.AssetID)
		}

		query, args, err = sqlx.In(`
			SELECT asset_id, ordinal, dt, price
			FROM asset_price_history
			WHERE asset_id IN (?)
			ORDER BY asset_id, ordinal`, assetIDs)
		if err != nil {
			return nil, fmt.Errorf("build history query: %w", err)
		}

		var points []dbModel.PricePoint
		if err = r.txOrDb(ctx).SelectContext(ctx, &points, r.txOrDb(ctx).Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("select price history: %w", err)
		}

		for _, p := range points {
			historyByAsset[p.AssetID] = append(historyByAsset[p.AssetID], p)
		}
	}

	assetsByPortfolio := make(map[uuid.UUID][]model.Asset, len(rows))
	for _, a := range dbAssets {
		assetsByPortfolio[a.PortfolioID] = append(assetsByPortfolio[a.PortfolioID], dbConverter.ConvertAsset(a, historyByAsset[a.AssetID]))
	}

	for _, row := range rows {
		assets := assetsByPortfolio[row.PortfolioID]
		if assets == nil {
			assets = []model.Asset{}
		}
		portfolios = append(portfolios, dbConverter.ConvertPortfolio(row, assets))
	}

	return portfolios, nil
}

package refreshService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/historyRecorder"
	"github.com/KotFed0t/portfolio_tracker/internal/marketClock"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrPersistence = errors.New("failed to persist portfolio")

type Repository interface {
	GetPortfoliosWithAssets(ctx context.Context) ([]model.Portfolio, error)
	UpdateAssetPrices(ctx context.Context, portfolioID uuid.UUID, assets []model.Asset, updatedAt time.Time) error
}

type PriceResolver interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Locker serializes sweep writes with user edits of the same portfolio.
type Locker interface {
	Lock(portfolioID uuid.UUID) (unlock func())
}

type RefreshService struct {
	repo     Repository
	prices   PriceResolver
	locks    Locker
	clock    *marketClock.Clock
	cooldown time.Duration
	running  atomic.Bool
}

func New(repo Repository, prices PriceResolver, locks Locker, clock *marketClock.Clock, cooldown time.Duration) *RefreshService {
	return &RefreshService{
		repo:     repo,
		prices:   prices,
		locks:    locks,
		clock:    clock,
		cooldown: cooldown,
	}
}

// RunSweep refreshes current prices of every held asset once, portfolio by portfolio.
// A failed lookup only affects its own asset. Only refreshed prices are written back,
// so assets added or removed while the sweep runs are left as they are.
func (s *RefreshService) RunSweep(ctx context.Context) (result model.SweepResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RefreshService.RunSweep"

	if !s.clock.IsOpen() {
		slog.Info("market session is not open yet, sweep skipped", slog.String("rqID", rqID), slog.String("op", op))
		return model.SweepResult{Skipped: true}, nil
	}

	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("previous sweep is still running, sweep skipped", slog.String("rqID", rqID), slog.String("op", op))
		return model.SweepResult{Skipped: true, InProgress: true}, nil
	}
	defer s.running.Store(false)

	slog.Debug("RunSweep start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RunSweep finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	portfolios, err := s.repo.GetPortfoliosWithAssets(ctx)
	if err != nil {
		slog.Error("got error from repo.GetPortfoliosWithAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return result, fmt.Errorf("load portfolios: %w", err)
	}

	for _, portfolio := range portfolios {
		updated, err := s.refreshPortfolio(ctx, portfolio, &result)
		if err != nil {
			return result, err
		}

		if len(updated) == 0 {
			result.PortfoliosProcessed++
			continue
		}

		unlock := s.locks.Lock(portfolio.ID)
		err = s.repo.UpdateAssetPrices(ctx, portfolio.ID, updated, s.clock.Now())
		unlock()
		if err != nil {
			slog.Error(
				"got error from repo.UpdateAssetPrices",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("portfolioID", portfolio.ID.String()),
				slog.String("err", err.Error()),
			)
			result.Errors = append(result.Errors, model.SweepError{
				PortfolioID: portfolio.ID,
				Cause:       fmt.Errorf("%w: %w", ErrPersistence, err),
			})
			continue
		}

		result.AssetsUpdated += len(updated)
		result.PortfoliosProcessed++
	}

	return result, nil
}

// refreshPortfolio returns copies of the assets of p that got a new price.
// Only context cancellation during a cooldown is returned as an error.
func (s *RefreshService) refreshPortfolio(ctx context.Context, p model.Portfolio, result *model.SweepResult) ([]model.Asset, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RefreshService.refreshPortfolio"
	var updated []model.Asset

	for _, asset := range p.Assets {
		price, err := s.prices.GetPrice(ctx, asset.Symbol)
		if err != nil {
			slog.Warn(
				"can't refresh asset price",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("portfolioID", p.ID.String()),
				slog.String("symbol", asset.Symbol),
				slog.String("err", err.Error()),
			)
			result.Errors = append(result.Errors, model.SweepError{Symbol: asset.Symbol, PortfolioID: p.ID, Cause: err})

			if err := s.waitCooldown(ctx); err != nil {
				return updated, err
			}
			continue
		}

		if price.Equal(asset.CurrentPrice) {
			continue
		}

		now := s.clock.Now()
		asset.CurrentPrice = price
		asset.PriceHistory = historyRecorder.Record(asset.PriceHistory, price, now)
		asset.UpdatedAt = now
		updated = append(updated, asset)
	}

	return updated, nil
}

func (s *RefreshService) waitCooldown(ctx context.Context) error {
	if s.cooldown <= 0 {
		return nil
	}

	select {
	case <-s.clock.After(s.cooldown):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Job adapts the sweep to the scheduler. Per-asset failures are reported in the log only.
func (s *RefreshService) Job(ctx context.Context) error {
	ctx = utils.CtxWithNewRqID(ctx)
	rqID := utils.GetRequestIDFromCtx(ctx)

	result, err := s.RunSweep(ctx)
	if err != nil {
		return err
	}

	if result.Skipped {
		return nil
	}

	slog.Info(
		"sweep completed",
		slog.String("rqID", rqID),
		slog.Int("portfoliosProcessed", result.PortfoliosProcessed),
		slog.Int("assetsUpdated", result.AssetsUpdated),
		slog.Int("errors", len(result.Errors)),
	)

	for _, e := range result.Errors {
		slog.Warn(
			"sweep error",
			slog.String("rqID", rqID),
			slog.String("portfolioID", e.PortfolioID.String()),
			slog.String("symbol", e.Symbol),
			slog.String("err", e.Cause.Error()),
		)
	}

	return nil
}

package priceService

import (
	"context"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// lookupTimeout bounds a shared fetch that no caller can cancel anymore.
const lookupTimeout = 15 * time.Second

type PriceLookup interface {
	FetchPrice(ctx context.Context, baseSymbol string) (decimal.Decimal, error)
}

type Cache interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, bool)
	SetPrice(ctx context.Context, symbol string, price decimal.Decimal, fetchedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

// PriceService resolves a symbol through the cache, falling back to the lookup.
// Concurrent misses for one symbol share a single external call.
type PriceService struct {
	cache    Cache
	lookup   PriceLookup
	clock    Clock
	inFlight singleflight.Group
}

func New(cache Cache, lookup PriceLookup, clock Clock) *PriceService {
	return &PriceService{cache: cache, lookup: lookup, clock: clock}
}

func (s *PriceService) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PriceService.GetPrice"

	if price, ok := s.cache.GetPrice(ctx, symbol); ok {
		slog.Debug("price served from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
		return price, nil
	}

	// общий запрос не должен зависеть от отмены контекста первого вызвавшего
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.inFlight.DoChan(symbol, func() (any, error) {
		// другой запрос мог успеть положить цену, пока ждали
		if price, ok := s.cache.GetPrice(fetchCtx, symbol); ok {
			return price, nil
		}

		lookupCtx, cancel := context.WithTimeout(fetchCtx, lookupTimeout)
		defer cancel()

		price, err := s.lookup.FetchPrice(lookupCtx, model.BaseSymbol(symbol))
		if err != nil {
			return decimal.Zero, err
		}

		if err := s.cache.SetPrice(fetchCtx, symbol, price, s.clock.Now()); err != nil {
			slog.Warn("can't cache price", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		}

		return price, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}

	if res.Err != nil {
		slog.Warn("price lookup failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", res.Err.Error()))
		return decimal.Zero, res.Err
	}

	slog.Debug("price resolved", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.Bool("shared", res.Shared))

	return res.Val.(decimal.Decimal), nil
}

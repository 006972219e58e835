package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const priceKeyPrefix = "price:"

type cachedPrice struct {
	Price     decimal.Decimal `json:"price"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// RedisCache shares prices between instances. Redis TTL only bounds memory,
// freshness is still checked against fetchedAt.
type RedisCache struct {
	redis *redis.Client
	clock clockwork.Clock
}

func NewRedisCache(redisClient *redis.Client, clock clockwork.Clock) *RedisCache {
	return &RedisCache{redis: redisClient, clock: clock}
}

func (r *RedisCache) SetPrice(ctx context.Context, symbol string, price decimal.Decimal, fetchedAt time.Time) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SetPrice"

	priceJson, err := json.Marshal(cachedPrice{Price: price, FetchedAt: fetchedAt})
	if err != nil {
		slog.Error("can't marshall price", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	err = r.redis.Set(ctx, priceKeyPrefix+symbol, priceJson, PriceFreshness).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("symbol", symbol))
		return err
	}

	return nil
}

func (r *RedisCache) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, bool) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetPrice"

	res, err := r.redis.Get(ctx, priceKeyPrefix+symbol).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("symbol", symbol))
		}
		return decimal.Zero, false
	}

	entry := cachedPrice{}
	if err = json.Unmarshal([]byte(res), &entry); err != nil {
		slog.Error(
			"can't unmarshall price",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return decimal.Zero, false
	}

	if !isFresh(entry.FetchedAt, r.clock.Now()) {
		return decimal.Zero, false
	}

	return entry.Price, true
}

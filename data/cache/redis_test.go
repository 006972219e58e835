package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis, *clockwork.FakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := clockwork.NewFakeClock()
	return NewRedisCache(client, clock), mr, clock
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr, clock := newTestRedisCache(t)

	require.NoError(t, c.SetPrice(ctx, "INFY.NSE", decimal.RequireFromString("1520.35"), clock.Now()))

	price, ok := c.GetPrice(ctx, "INFY.NSE")
	assert.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("1520.35")))
	assert.Equal(t, PriceFreshness, mr.TTL("price:INFY.NSE"))
}

func TestRedisCache_StaleByFetchedAt(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newTestRedisCache(t)

	require.NoError(t, c.SetPrice(ctx, "INFY.NSE", decimal.NewFromInt(1), clock.Now()))
	clock.Advance(PriceFreshness)

	_, ok := c.GetPrice(ctx, "INFY.NSE")
	assert.False(t, ok)
}

func TestRedisCache_MissAndGarbage(t *testing.T) {
	ctx := context.Background()
	c, mr, _ := newTestRedisCache(t)

	_, ok := c.GetPrice(ctx, "none")
	assert.False(t, ok)

	require.NoError(t, mr.Set("price:bad", "{not json"))
	_, ok = c.GetPrice(ctx, "bad")
	assert.False(t, ok)
}

func TestRedisCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr, clock := newTestRedisCache(t)
	mr.Close()

	_, ok := c.GetPrice(ctx, "A")
	assert.False(t, ok)
	assert.Error(t, c.SetPrice(ctx, "A", decimal.NewFromInt(1), clock.Now()))
}

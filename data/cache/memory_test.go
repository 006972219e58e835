package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_FreshWithinWindow(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	c := NewMemoryCache(clock)

	require.NoError(t, c.SetPrice(ctx, "TCS.BSE", decimal.NewFromInt(3500), clock.Now()))
	clock.Advance(PriceFreshness - time.Millisecond)

	price, ok := c.GetPrice(ctx, "TCS.BSE")
	assert.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(3500)))
}

func TestMemoryCache_StaleAfterWindow(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	c := NewMemoryCache(clock)

	require.NoError(t, c.SetPrice(ctx, "TCS.BSE", decimal.NewFromInt(3500), clock.Now()))
	clock.Advance(PriceFreshness)

	_, ok := c.GetPrice(ctx, "TCS.BSE")
	assert.False(t, ok)
}

func TestMemoryCache_KeyedByFullSymbol(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	c := NewMemoryCache(clock)

	require.NoError(t, c.SetPrice(ctx, "TCS.BSE", decimal.NewFromInt(1), clock.Now()))

	_, ok := c.GetPrice(ctx, "TCS.NSE")
	assert.False(t, ok)
	_, ok = c.GetPrice(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	c := NewMemoryCache(clock)

	require.NoError(t, c.SetPrice(ctx, "A", decimal.NewFromInt(1), clock.Now()))
	clock.Advance(2 * PriceFreshness)
	require.NoError(t, c.SetPrice(ctx, "A", decimal.NewFromInt(2), clock.Now()))

	price, ok := c.GetPrice(ctx, "A")
	assert.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(2)))
}

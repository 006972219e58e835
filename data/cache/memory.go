package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

type priceEntry struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// MemoryCache lives for the process lifetime; entries are overwritten, never evicted.
type MemoryCache struct {
	mu     sync.RWMutex
	clock  clockwork.Clock
	prices map[string]priceEntry
}

func NewMemoryCache(clock clockwork.Clock) *MemoryCache {
	return &MemoryCache{clock: clock, prices: make(map[string]priceEntry)}
}

func (c *MemoryCache) GetPrice(_ context.Context, symbol string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.prices[symbol]
	if !ok || !isFresh(entry.fetchedAt, c.clock.Now()) {
		return decimal.Zero, false
	}
	return entry.price, true
}

func (c *MemoryCache) SetPrice(_ context.Context, symbol string, price decimal.Decimal, fetchedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prices[symbol] = priceEntry{price: price, fetchedAt: fetchedAt}
	return nil
}

package historyRecorder

import (
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/internal/marketClock"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ist(day, hour, min, sec, msec int) time.Time {
	return time.Date(2025, time.March, day, hour, min, sec, msec*int(time.Millisecond), marketClock.Location)
}

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestRecord_AppendsToEmptyHistory(t *testing.T) {
	now := ist(10, 10, 0, 0, 0)

	got := Record(nil, price(100), now)

	require.Len(t, got, 1)
	assert.True(t, got[0].Date.Equal(now))
	assert.True(t, got[0].Price.Equal(price(100)))
}

func TestRecord_OneEntryPerTradingDay(t *testing.T) {
	history := []model.PricePoint{
		{Date: ist(7, 15, 0, 0, 0), Price: price(90)},
		{Date: ist(8, 15, 0, 0, 0), Price: price(95)},
	}

	calls := []time.Time{
		ist(10, 9, 15, 0, 0),
		ist(10, 11, 0, 0, 0),
		ist(10, 15, 30, 0, 0),
		ist(11, 9, 0, 0, 0), // still the 10th's trading day
	}

	got := history
	for i, now := range calls {
		got = Record(got, price(int64(100+i)), now)
	}

	require.Len(t, got, len(history)+1)
	assert.True(t, got[0].Price.Equal(price(90)))
	assert.True(t, got[1].Price.Equal(price(95)))
	assert.True(t, got[2].Price.Equal(price(103)))
	assert.True(t, got[2].Date.Equal(calls[3]))
}

func TestRecord_DayBoundaryRollover(t *testing.T) {
	beforeOpen := ist(10, 9, 14, 59, 999)
	atOpen := ist(10, 9, 15, 0, 0)

	got := Record(nil, price(100), beforeOpen)
	got = Record(got, price(101), atOpen)

	require.Len(t, got, 2)
	assert.True(t, got[0].Date.Equal(beforeOpen))
	assert.True(t, got[1].Date.Equal(atOpen))
}

func TestRecord_PreOpenAmendsPreviousDay(t *testing.T) {
	history := []model.PricePoint{{Date: ist(9, 14, 0, 0, 0), Price: price(100)}}

	got := Record(history, price(105), ist(10, 8, 0, 0, 0))

	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(price(105)))
}

func TestRecord_DoesNotMutateInput(t *testing.T) {
	history := []model.PricePoint{{Date: ist(10, 10, 0, 0, 0), Price: price(100)}}

	got := Record(history, price(200), ist(10, 12, 0, 0, 0))

	assert.True(t, history[0].Price.Equal(price(100)))
	assert.True(t, got[0].Price.Equal(price(200)))
}

func TestRecord_UTCStoredDatesAreBucketedInMarketTime(t *testing.T) {
	// 04:00 UTC == 09:30 IST on the 10th
	stored := time.Date(2025, time.March, 10, 4, 0, 0, 0, time.UTC)
	history := []model.PricePoint{{Date: stored, Price: price(100)}}

	got := Record(history, price(110), ist(10, 14, 0, 0, 0))

	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(price(110)))
}

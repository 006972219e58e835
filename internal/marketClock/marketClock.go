// Package marketClock keeps every market-local time computation in one place.
package marketClock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// IST is UTC+5:30, independent of the host time zone.
const istOffsetMinutes = 330

var Location = time.FixedZone("IST", istOffsetMinutes*60)

const (
	sessionOpenHour   = 9
	sessionOpenMinute = 15
)

type Clock struct {
	clock clockwork.Clock
}

func New(clock clockwork.Clock) *Clock {
	return &Clock{clock: clock}
}

func NewReal() *Clock {
	return New(clockwork.NewRealClock())
}

// Now returns the current instant expressed in market-local time.
func (c *Clock) Now() time.Time {
	return c.clock.Now().In(Location)
}

func (c *Clock) IsOpen() bool {
	return IsSessionOpen(c.Now())
}

// After waits on the underlying clock, so fake clocks drive cooldowns in tests.
func (c *Clock) After(d time.Duration) <-chan time.Time {
	return c.clock.After(d)
}

// SessionStart returns 09:15:00.000 market-local on t's local calendar date.
func SessionStart(t time.Time) time.Time {
	l := t.In(Location)
	return time.Date(l.Year(), l.Month(), l.Day(), sessionOpenHour, sessionOpenMinute, 0, 0, Location)
}

func IsSessionOpen(t time.Time) bool {
	return !t.Before(SessionStart(t))
}

// TradingDay returns the session start of the trading day t belongs to.
// Before 09:15 local t still belongs to the previous day's session.
func TradingDay(t time.Time) time.Time {
	start := SessionStart(t)
	if t.Before(start) {
		return SessionStart(start.AddDate(0, 0, -1))
	}
	return start
}

package cache

import "time"

// PriceFreshness is how long a fetched price short-circuits the external lookup.
const PriceFreshness = time.Hour

func isFresh(fetchedAt, now time.Time) bool {
	return now.Sub(fetchedAt) < PriceFreshness
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateMaxAge is how long a rate snapshot stays fresh
const RateMaxAge = 3 * time.Hour

// RateSnapshot holds the value of one unit of each foreign currency in the base currency (BRL)
type RateSnapshot struct {
	USD       decimal.Decimal `json:"usd"`
	EUR       decimal.Decimal `json:"eur"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// RateFor returns the rate for a foreign currency code
func (s RateSnapshot) RateFor(currency Currency) (decimal.Decimal, bool) {
	switch currency {
	case USD:
		return s.USD, true
	case EUR:
		return s.EUR, true
	case BRL:
		return decimal.NewFromInt(1), true
	default:
		return decimal.Zero, false
	}
}

// Valid reports whether both rates are usable
func (s RateSnapshot) Valid() bool {
	return s.USD.IsPositive() && s.EUR.IsPositive() && !s.FetchedAt.IsZero()
}

// IsStale reports whether the snapshot is older than maxAge at now
func IsStale(s RateSnapshot, now time.Time, maxAge time.Duration) bool {
	if s.FetchedAt.IsZero() {
		return true
	}
	return now.Sub(s.FetchedAt) > maxAge
}

package repository

import (
	"context"
	"time"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// RateProvider supplies the current exchange rates.
// Current never blocks on the network: when no fresh snapshot is held it
// returns entity.ErrRatesPending and the provider refreshes on its own.
type RateProvider interface {
	Current(now time.Time) (entity.RateSnapshot, error)
}

// RateFetcher retrieves a new rate snapshot from an external source
type RateFetcher interface {
	FetchRates(ctx context.Context) (entity.RateSnapshot, error)
}

// RateStore persists the latest rate snapshot
type RateStore interface {
	LoadSnapshot(ctx context.Context) (entity.RateSnapshot, bool, error)
	SaveSnapshot(ctx context.Context, snapshot entity.RateSnapshot) error
}

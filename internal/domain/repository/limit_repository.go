package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// LimitRepository persists per-category monthly limits
type LimitRepository interface {
	Get(ctx context.Context) (entity.Limits, error)
	Set(ctx context.Context, category string, value decimal.Decimal) error
}

// PreferencesRepository persists the user's display preferences
type PreferencesRepository interface {
	// Load returns the saved preferences, or the defaults when none were saved
	Load(ctx context.Context) (entity.Preferences, error)
	Save(ctx context.Context, prefs entity.Preferences) error
}

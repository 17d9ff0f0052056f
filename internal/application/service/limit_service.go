package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// LimitListener is told about the full limit mapping after each change
type LimitListener interface {
	LimitsChanged(ctx context.Context, limits entity.Limits)
}

// LimitService manages the per-category monthly spending limits
type LimitService struct {
	repo     repository.LimitRepository
	logger   logger.Logger
	listener LimitListener
	mu       *sync.Mutex
}

// NewLimitService creates a new limit service
func NewLimitService(repo repository.LimitRepository, log logger.Logger) *LimitService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &LimitService{repo: repo, logger: log, mu: &sync.Mutex{}}
}

// ShareLock serialises limit changes with every other service holding mu
func (s *LimitService) ShareLock(mu *sync.Mutex) {
	s.mu = mu
}

// SetListener registers the component recomputed after every change
func (s *LimitService) SetListener(l LimitListener) {
	s.listener = l
}

// GetLimits returns every configured limit
func (s *LimitService) GetLimits(ctx context.Context) (entity.Limits, error) {
	return s.repo.Get(ctx)
}

// SetLimit sets the monthly limit of a debit category. Negative values are stored as zero,
// which disables alerting for the category.
func (s *LimitService) SetLimit(ctx context.Context, category string, value decimal.Decimal) (entity.Limits, error) {
	if !entity.IsValidCategory(entity.Debit, category) {
		return nil, &entity.ValidationError{Field: "category", Message: "'" + category + "' is not a debit category"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated := entity.UpdateLimit(current, category, value.Round(2))
	if err := s.repo.Set(ctx, category, updated[category]); err != nil {
		return nil, err
	}

	s.logger.Info("Limit updated", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"category":   category,
		"limit":      updated[category].String(),
	})

	if s.listener != nil {
		s.listener.LimitsChanged(ctx, updated)
	}
	return updated, nil
}

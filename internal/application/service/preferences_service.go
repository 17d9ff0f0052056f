package service

import (
	"context"
	"sync"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
)

// PreferencesService loads the preferences once and keeps them in memory
type PreferencesService struct {
	repo   repository.PreferencesRepository
	logger logger.Logger
	prefs  *entity.Preferences
	mu     sync.RWMutex
}

// NewPreferencesService creates a new preferences service
func NewPreferencesService(repo repository.PreferencesRepository, log logger.Logger) *PreferencesService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &PreferencesService{repo: repo, logger: log}
}

// Get returns the current preferences
func (s *PreferencesService) Get(ctx context.Context) (entity.Preferences, error) {
	s.mu.RLock()
	if s.prefs != nil {
		defer s.mu.RUnlock()
		return *s.prefs, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs == nil {
		prefs, err := s.repo.Load(ctx)
		if err != nil {
			return entity.Preferences{}, err
		}
		s.prefs = &prefs
	}
	return *s.prefs, nil
}

// Save validates and stores prefs
func (s *PreferencesService) Save(ctx context.Context, prefs entity.Preferences) (entity.Preferences, error) {
	currency, err := entity.ParseCurrency(string(prefs.BaseCurrency))
	if err != nil {
		return entity.Preferences{}, err
	}
	prefs.BaseCurrency = currency
	prefs.MonthlyGoal = prefs.MonthlyGoal.Round(2)
	if err := prefs.Validate(); err != nil {
		return entity.Preferences{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, prefs); err != nil {
		return entity.Preferences{}, err
	}
	s.prefs = &prefs

	s.logger.Info("Preferences saved", map[string]interface{}{
		"currency":   prefs.BaseCurrency,
		"theme_dark": prefs.ThemeDark,
	})
	return prefs, nil
}

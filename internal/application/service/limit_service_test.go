package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/mocks"
)

type limitRecorder struct {
	last entity.Limits
}

func (r *limitRecorder) LimitsChanged(_ context.Context, limits entity.Limits) {
	r.last = limits
}

func TestSetLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores the clamped value", func(t *testing.T) {
		repo := new(mocks.MockLimitRepository)
		service := NewLimitService(repo, logger.Discard())
		rec := &limitRecorder{}
		service.SetListener(rec)

		current := entity.Limits{"Lazer": decimal.NewFromInt(200)}
		repo.On("Get", ctx).Return(current, nil).Once()
		repo.On("Set", ctx, "Alimentação", mock.MatchedBy(func(v decimal.Decimal) bool {
			return v.IsZero()
		})).Return(nil).Once()

		limits, err := service.SetLimit(ctx, "Alimentação", decimal.NewFromInt(-50))

		require.NoError(t, err)
		assert.True(t, limits["Alimentação"].IsZero())
		assert.Equal(t, "200", limits["Lazer"].String())
		assert.Len(t, current, 1, "stored mapping is not mutated")
		assert.Equal(t, limits, rec.last)
		repo.AssertExpectations(t)
	})

	t.Run("Rejects non-debit categories", func(t *testing.T) {
		repo := new(mocks.MockLimitRepository)
		service := NewLimitService(repo, logger.Discard())

		_, err := service.SetLimit(ctx, "Salário", decimal.NewFromInt(100))

		assert.True(t, entity.IsValidation(err))
		repo.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("Store failure", func(t *testing.T) {
		repo := new(mocks.MockLimitRepository)
		service := NewLimitService(repo, logger.Discard())
		rec := &limitRecorder{}
		service.SetListener(rec)

		repo.On("Get", ctx).Return(entity.Limits{}, nil).Once()
		repo.On("Set", ctx, "Lazer", mock.Anything).Return(errors.New("read only")).Once()

		_, err := service.SetLimit(ctx, "Lazer", decimal.NewFromInt(100))

		assert.EqualError(t, err, "read only")
		assert.Nil(t, rec.last)
	})
}

func TestPreferencesService(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockPreferencesRepository)
	service := NewPreferencesService(repo, logger.Discard())

	repo.On("Load", ctx).Return(entity.DefaultPreferences(), nil).Once()

	prefs, err := service.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.BRL, prefs.BaseCurrency)

	// Loaded once
	_, err = service.Get(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Load", 1)

	t.Run("Save normalises the currency", func(t *testing.T) {
		repo.On("Save", ctx, mock.MatchedBy(func(p entity.Preferences) bool {
			return p.BaseCurrency == entity.USD && p.ThemeDark
		})).Return(nil).Once()

		saved, err := service.Save(ctx, entity.Preferences{ThemeDark: true, BaseCurrency: "usd", MonthlyGoal: decimal.NewFromInt(10)})
		require.NoError(t, err)
		assert.Equal(t, entity.USD, saved.BaseCurrency)

		current, err := service.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.USD, current.BaseCurrency)
	})

	t.Run("Save rejects unknown currencies", func(t *testing.T) {
		_, err := service.Save(ctx, entity.Preferences{BaseCurrency: "ARS"})
		assert.True(t, entity.IsValidation(err))
	})
}

func TestMutationsShareOneLock(t *testing.T) {
	ctx := context.Background()
	mu := &sync.Mutex{}

	limitRepo := new(mocks.MockLimitRepository)
	limitRepo.On("Get", ctx).Return(entity.Limits{}, nil)
	limitRepo.On("Set", ctx, "Lazer", mock.Anything).Return(nil)

	limits := NewLimitService(limitRepo, logger.Discard())
	limits.ShareLock(mu)
	transactions := NewTransactionService(new(mocks.MockTransactionRepository), logger.Discard())
	transactions.ShareLock(mu)
	assert.Same(t, transactions.mu, limits.mu)

	// A transaction mutation in flight holds the shared lock
	mu.Lock()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := limits.SetLimit(ctx, "Lazer", decimal.NewFromInt(10))
		assert.NoError(t, err)
	}()

	finished := func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
	assert.Never(t, finished, 50*time.Millisecond, 5*time.Millisecond)

	mu.Unlock()
	assert.Eventually(t, finished, time.Second, 5*time.Millisecond)
	limitRepo.AssertExpectations(t)
}

// Package mocks provides testify mocks of the repository and provider interfaces
package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
)

// MockTransactionRepository mocks the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]entity.Transaction, error) {
	args := m.Called(ctx)
	return transactions(args.Get(0)), args.Error(1)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Append(ctx context.Context, tx entity.Transaction) ([]entity.Transaction, error) {
	args := m.Called(ctx, tx)
	return transactions(args.Get(0)), args.Error(1)
}

func (m *MockTransactionRepository) Replace(ctx context.Context, id string, tx entity.Transaction) ([]entity.Transaction, error) {
	args := m.Called(ctx, id, tx)
	return transactions(args.Get(0)), args.Error(1)
}

func (m *MockTransactionRepository) Remove(ctx context.Context, id string) ([]entity.Transaction, error) {
	args := m.Called(ctx, id)
	return transactions(args.Get(0)), args.Error(1)
}

func transactions(v interface{}) []entity.Transaction {
	if v == nil {
		return nil
	}
	return v.([]entity.Transaction)
}

// MockLimitRepository mocks the LimitRepository interface
type MockLimitRepository struct {
	mock.Mock
}

func (m *MockLimitRepository) Get(ctx context.Context) (entity.Limits, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Limits), args.Error(1)
}

func (m *MockLimitRepository) Set(ctx context.Context, category string, value decimal.Decimal) error {
	args := m.Called(ctx, category, value)
	return args.Error(0)
}

// MockPreferencesRepository mocks the PreferencesRepository interface
type MockPreferencesRepository struct {
	mock.Mock
}

func (m *MockPreferencesRepository) Load(ctx context.Context) (entity.Preferences, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.Preferences), args.Error(1)
}

func (m *MockPreferencesRepository) Save(ctx context.Context, prefs entity.Preferences) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

// MockRateFetcher mocks the RateFetcher interface
type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) FetchRates(ctx context.Context) (entity.RateSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.RateSnapshot), args.Error(1)
}

// MockRateProvider mocks the RateProvider interface
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Current(now time.Time) (entity.RateSnapshot, error) {
	args := m.Called(now)
	return args.Get(0).(entity.RateSnapshot), args.Error(1)
}

// MockRateStore mocks the RateStore interface
type MockRateStore struct {
	mock.Mock
}

func (m *MockRateStore) LoadSnapshot(ctx context.Context) (entity.RateSnapshot, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.RateSnapshot), args.Bool(1), args.Error(2)
}

func (m *MockRateStore) SaveSnapshot(ctx context.Context, snapshot entity.RateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}

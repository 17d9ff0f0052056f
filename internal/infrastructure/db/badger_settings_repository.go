package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

const (
	limitPrefix    = "limit:"
	preferencesKey = "prefs"
	ratesKey       = "rates:latest"
)

// BadgerLimitRepository stores one key per limited category
type BadgerLimitRepository struct {
	db *badger.DB
}

// NewBadgerLimitRepository creates a new BadgerDB limit repository
func NewBadgerLimitRepository(db *badger.DB) *BadgerLimitRepository {
	return &BadgerLimitRepository{db: db}
}

// Get returns every stored limit
func (r *BadgerLimitRepository) Get(ctx context.Context) (entity.Limits, error) {
	limits := make(entity.Limits)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(limitPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			category := strings.TrimPrefix(string(item.Key()), limitPrefix)
			err := item.Value(func(val []byte) error {
				v, err := decimal.NewFromString(string(val))
				if err != nil {
					return err
				}
				limits[category] = v
				return nil
			})
			if err != nil {
				return fmt.Errorf("invalid limit for '%s': %w", category, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load limits: %w", err)
	}

	return limits, nil
}

// Set stores the limit of category
func (r *BadgerLimitRepository) Set(ctx context.Context, category string, value decimal.Decimal) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(limitPrefix+category), []byte(value.String()))
	})
	if err != nil {
		return fmt.Errorf("failed to store limit: %w", err)
	}
	return nil
}

// BadgerPreferencesRepository stores the preferences under a single key
type BadgerPreferencesRepository struct {
	db *badger.DB
}

// NewBadgerPreferencesRepository creates a new BadgerDB preferences repository
func NewBadgerPreferencesRepository(db *badger.DB) *BadgerPreferencesRepository {
	return &BadgerPreferencesRepository{db: db}
}

// Load returns the saved preferences, or the defaults when none were saved
func (r *BadgerPreferencesRepository) Load(ctx context.Context) (entity.Preferences, error) {
	prefs := entity.DefaultPreferences()

	err := r.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, []byte(preferencesKey), &prefs)
		return err
	})
	if err != nil {
		return entity.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	return prefs, nil
}

// Save stores prefs
func (r *BadgerPreferencesRepository) Save(ctx context.Context, prefs entity.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, []byte(preferencesKey), prefs)
	})
	if err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}

// BadgerRateStore keeps the latest fetched rate snapshot across restarts
type BadgerRateStore struct {
	db *badger.DB
}

// NewBadgerRateStore creates a new BadgerDB rate snapshot store
func NewBadgerRateStore(db *badger.DB) *BadgerRateStore {
	return &BadgerRateStore{db: db}
}

// LoadSnapshot returns the last saved snapshot, reporting false if there is none
func (s *BadgerRateStore) LoadSnapshot(ctx context.Context) (entity.RateSnapshot, bool, error) {
	var snapshot entity.RateSnapshot
	var found bool

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, []byte(ratesKey), &snapshot)
		return err
	})
	if err != nil {
		return entity.RateSnapshot{}, false, fmt.Errorf("failed to load rate snapshot: %w", err)
	}
	return snapshot, found, nil
}

// SaveSnapshot stores snapshot as the latest one
func (s *BadgerRateStore) SaveSnapshot(ctx context.Context, snapshot entity.RateSnapshot) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, []byte(ratesKey), snapshot)
	})
	if err != nil {
		return fmt.Errorf("failed to store rate snapshot: %w", err)
	}
	return nil
}

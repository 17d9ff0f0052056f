package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/cache"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
)

// RateMetrics counts rate refresh outcomes
type RateMetrics interface {
	IncrRateFetch(outcome string)
}

// RateService implements repository.RateProvider on top of a cache, a fetcher
// and an optional persistent store. Readers never wait for the network: a
// missing or stale snapshot starts one background refresh and reports pending.
type RateService struct {
	fetcher    repository.RateFetcher
	cache      *cache.RateCache
	store      repository.RateStore
	metrics    RateMetrics
	logger     logger.Logger
	timeout    time.Duration
	group      singleflight.Group
	refreshing atomic.Bool
	wg         sync.WaitGroup
}

// NewRateService creates a new rate service. store and metrics may be nil.
func NewRateService(fetcher repository.RateFetcher, c *cache.RateCache, store repository.RateStore, metrics RateMetrics, log logger.Logger, timeout time.Duration) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if c == nil {
		c = cache.NewRateCache(entity.RateMaxAge)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RateService{
		fetcher: fetcher,
		cache:   c,
		store:   store,
		metrics: metrics,
		logger:  log,
		timeout: timeout,
	}
}

// Warm loads the last persisted snapshot into the cache, fresh or not
func (s *RateService) Warm(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	snapshot, found, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	if found {
		s.cache.Put(snapshot)
	}
	return nil
}

// Current returns a fresh snapshot or entity.ErrRatesPending
func (s *RateService) Current(now time.Time) (entity.RateSnapshot, error) {
	snapshot, err := s.cache.Get(now)
	if err == nil {
		return snapshot, nil
	}

	s.logger.Debug("Rates unavailable, scheduling refresh", map[string]interface{}{
		"reason": err.Error(),
	})
	s.refreshAsync()
	return entity.RateSnapshot{}, entity.ErrRatesPending
}

// Refresh fetches a new snapshot now. Concurrent callers share a single fetch.
func (s *RateService) Refresh(ctx context.Context) (entity.RateSnapshot, error) {
	v, err, _ := s.group.Do("rates", func() (interface{}, error) {
		snapshot, err := s.fetcher.FetchRates(ctx)
		if err != nil {
			s.record("error")
			s.logger.Error("Failed to refresh exchange rates", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, err
		}

		s.record("success")
		s.cache.Put(snapshot)
		if s.store != nil {
			if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
				s.logger.Warn("Failed to persist exchange rates", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		s.logger.Info("Exchange rates refreshed", map[string]interface{}{
			"usd":        snapshot.USD.String(),
			"eur":        snapshot.EUR.String(),
			"fetched_at": snapshot.FetchedAt,
		})
		return snapshot, nil
	})
	if err != nil {
		return entity.RateSnapshot{}, err
	}
	return v.(entity.RateSnapshot), nil
}

// Wait blocks until any background refresh has finished
func (s *RateService) Wait() {
	s.wg.Wait()
}

func (s *RateService) refreshAsync() {
	if !s.refreshing.CompareAndSwap(false, true) {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.refreshing.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		_, _ = s.Refresh(ctx)
	}()
}

func (s *RateService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrRateFetch(outcome)
	}
}

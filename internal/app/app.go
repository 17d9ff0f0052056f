// Package app wires configuration, storage, services and handlers into a running application
package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/marcos-lima-dev/finance-app/internal/application/service"
	"github.com/marcos-lima-dev/finance-app/internal/config"
	"github.com/marcos-lima-dev/finance-app/internal/domain/alerting"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/api"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/cache"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/db"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/handler"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/metrics"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/resilience"
)

// App holds every long-lived component
type App struct {
	Config  *config.Config
	Logger  logger.Logger
	Metrics *metrics.Metrics

	Transactions *service.TransactionService
	Limits       *service.LimitService
	Preferences  *service.PreferencesService
	Rates        *service.RateService
	Dashboards   *service.DashboardService
	Exports      *service.ExportService

	db     *badger.DB
	txRepo *db.BadgerTransactionRepository
}

// Option customises the wiring
type Option func(*options)

type options struct {
	fetcher repository.RateFetcher
	now     func() time.Time
}

// WithRateFetcher replaces the HTTP exchange-rate client
func WithRateFetcher(f repository.RateFetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithClock overrides the time source of the dashboard
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New opens the database in cfg.Data.Dir and builds the services on top of it.
// An empty data dir runs on an in-memory database.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	badgerDB, err := db.Open(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}

	txRepo, err := db.NewBadgerTransactionRepository(badgerDB)
	if err != nil {
		badgerDB.Close()
		return nil, err
	}
	limitRepo := db.NewBadgerLimitRepository(badgerDB)
	prefsRepo := db.NewBadgerPreferencesRepository(badgerDB)
	rateStore := db.NewBadgerRateStore(badgerDB)

	m := metrics.New()

	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = api.NewExchangeRateClient(
			&http.Client{Timeout: cfg.Rates.Timeout},
			api.WithURL(cfg.Rates.URL),
			api.WithRetry(resilience.Config{
				MaxRetries:     cfg.Rates.MaxRetries,
				InitialBackoff: resilience.DefaultConfig().InitialBackoff,
			}),
			api.WithLogger(log.WithField("component", "exchange_rate_client")),
		)
	}

	rateCache := cache.NewRateCache(cfg.Rates.MaxAge).WithRecorder(m)
	rates := service.NewRateService(fetcher, rateCache, rateStore, m, log, cfg.Rates.Timeout)
	if err := rates.Warm(ctx); err != nil {
		log.Warn("Failed to load persisted exchange rates", map[string]interface{}{
			"error": err.Error(),
		})
	}

	dashboards := service.NewDashboardService(txRepo, limitRepo, alerting.NewBoard(), m, log)
	dashboards.SetDefaultWindow(cfg.Dashboard.Window)
	if o.now != nil {
		dashboards.SetClock(o.now)
	}

	mutations := &sync.Mutex{}
	transactions := service.NewTransactionService(txRepo, log)
	transactions.ShareLock(mutations)
	transactions.SetListener(dashboards)
	limits := service.NewLimitService(limitRepo, log)
	limits.ShareLock(mutations)
	limits.SetListener(dashboards)

	prefs := service.NewPreferencesService(prefsRepo, log)
	exports := service.NewExportService(txRepo, prefs, rates, cfg.Delimiter(), log)

	a := &App{
		Config:       cfg,
		Logger:       log,
		Metrics:      m,
		Transactions: transactions,
		Limits:       limits,
		Preferences:  prefs,
		Rates:        rates,
		Dashboards:   dashboards,
		Exports:      exports,
		db:           badgerDB,
		txRepo:       txRepo,
	}

	if err := dashboards.Refresh(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Handler returns the HTTP API
func (a *App) Handler() http.Handler {
	return handler.NewRouter(a.Logger, a.Metrics,
		handler.NewTransactionHandler(a.Transactions, a.Logger),
		handler.NewLimitHandler(a.Limits, a.Logger),
		handler.NewDashboardHandler(a.Dashboards, a.Preferences, a.Rates, a.Logger),
		handler.NewPreferencesHandler(a.Preferences, a.Rates, a.Logger),
		handler.NewExportHandler(a.Exports, a.Logger),
	)
}

// Close waits for background refreshes and closes the database
func (a *App) Close() error {
	a.Rates.Wait()
	return errors.Join(a.txRepo.Close(), a.db.Close())
}

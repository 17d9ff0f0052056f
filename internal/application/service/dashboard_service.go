package service

import (
	"context"
	"time"

	"github.com/marcos-lima-dev/finance-app/internal/domain/alerting"
	"github.com/marcos-lima-dev/finance-app/internal/domain/dashboard"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// DashboardMetrics receives the results of each recomputation
type DashboardMetrics interface {
	ObserveRecompute(d time.Duration)
	SetAlerts(counts map[string]int)
	SetTransactions(n int)
}

// DashboardService derives the dashboard and keeps the alert board current
type DashboardService struct {
	txRepo    repository.TransactionRepository
	limitRepo repository.LimitRepository
	board     *alerting.Board
	metrics   DashboardMetrics
	logger    logger.Logger
	window    int
	now       func() time.Time
}

// NewDashboardService creates a new dashboard service. metrics may be nil.
func NewDashboardService(txRepo repository.TransactionRepository, limitRepo repository.LimitRepository, board *alerting.Board, metrics DashboardMetrics, log logger.Logger) *DashboardService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if board == nil {
		board = alerting.NewBoard()
	}
	return &DashboardService{
		txRepo:    txRepo,
		limitRepo: limitRepo,
		board:     board,
		metrics:   metrics,
		logger:    log,
		window:    dashboard.DefaultOptions().Window,
		now:       time.Now,
	}
}

// SetClock overrides the time source
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}

// SetDefaultWindow sets the moving average window used when a request does not choose one
func (s *DashboardService) SetDefaultWindow(window int) {
	if window > 0 {
		s.window = window
	}
}

// Dashboard derives the dashboard for opts. The alerts it carries are the
// visible ones on the board, which is refreshed first if it was never filled
// or the evaluated alert set moved on (for example into a new month).
// A read never replaces a set installed after it loaded its snapshot.
func (s *DashboardService) Dashboard(ctx context.Context, opts dashboard.Options) (dashboard.Dashboard, error) {
	epoch := s.board.Epoch()
	txs, limits, err := s.load(ctx)
	if err != nil {
		return dashboard.Dashboard{}, err
	}

	if opts.Window <= 0 {
		opts.Window = s.window
	}
	d := s.recompute(ctx, txs, limits, opts)
	if epoch == 0 || !s.board.Holds(d.Alerts) {
		s.publishAt(d.Alerts, epoch)
	}
	d.Alerts = s.board.Visible()
	return d, nil
}

// Alerts returns the alerts that have not been dismissed
func (s *DashboardService) Alerts(ctx context.Context) ([]entity.Alert, error) {
	if s.board.Epoch() == 0 {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return s.board.Visible(), nil
}

// DismissAlert hides an alert until the next recomputation
func (s *DashboardService) DismissAlert(ctx context.Context, key string) error {
	if !s.board.Dismiss(key) {
		return &entity.NotFoundError{Resource: "alert", ID: key}
	}
	s.logger.Info("Alert dismissed", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"key":        key,
	})
	return nil
}

// Refresh reloads the stores and replaces the alert set, unless a change
// published a newer one in the meantime
func (s *DashboardService) Refresh(ctx context.Context) error {
	epoch := s.board.Epoch()
	txs, limits, err := s.load(ctx)
	if err != nil {
		return err
	}
	d := s.recompute(ctx, txs, limits, dashboard.DefaultOptions())
	s.publishAt(d.Alerts, epoch)
	return nil
}

// TransactionsChanged recomputes after a transaction mutation
func (s *DashboardService) TransactionsChanged(ctx context.Context, txs []entity.Transaction) {
	limits, err := s.limitRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to load limits for recompute", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	d := s.recompute(ctx, txs, limits, dashboard.DefaultOptions())
	s.publish(d.Alerts)
}

// LimitsChanged recomputes after a limit change
func (s *DashboardService) LimitsChanged(ctx context.Context, limits entity.Limits) {
	txs, err := s.txRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load transactions for recompute", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	d := s.recompute(ctx, txs, limits, dashboard.DefaultOptions())
	s.publish(d.Alerts)
}

func (s *DashboardService) load(ctx context.Context) ([]entity.Transaction, entity.Limits, error) {
	txs, err := s.txRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	limits, err := s.limitRepo.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	return txs, limits, nil
}

func (s *DashboardService) recompute(ctx context.Context, txs []entity.Transaction, limits entity.Limits, opts dashboard.Options) dashboard.Dashboard {
	if opts.Window <= 0 {
		opts.Window = s.window
	}

	start := time.Now()
	d := dashboard.Recompute(txs, limits, s.now(), opts)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveRecompute(elapsed)
		s.metrics.SetTransactions(len(txs))
	}

	s.logger.Debug("Dashboard recomputed", map[string]interface{}{
		"request_id":   middleware.GetRequestID(ctx),
		"transactions": len(txs),
		"alerts":       len(d.Alerts),
		"period":       d.Period,
		"duration_us":  elapsed.Microseconds(),
	})
	return d
}

// publishAt installs alerts derived from a snapshot read at epoch
func (s *DashboardService) publishAt(alerts []entity.Alert, epoch uint64) {
	current, ok := s.board.ReplaceAt(alerts, epoch)
	if !ok {
		s.logger.Debug("Discarded alerts from an outdated snapshot", map[string]interface{}{
			"read_epoch":    epoch,
			"current_epoch": current,
		})
		return
	}
	s.report(alerts, current)
}

func (s *DashboardService) publish(alerts []entity.Alert) {
	s.report(alerts, s.board.Replace(alerts))
}

func (s *DashboardService) report(alerts []entity.Alert, epoch uint64) {

	if s.metrics != nil {
		counts := make(map[string]int)
		for _, a := range alerts {
			counts[string(a.Severity)]++
		}
		s.metrics.SetAlerts(counts)
	}

	for _, a := range alerts {
		s.logger.Info("Spending alert", map[string]interface{}{
			"epoch":      epoch,
			"key":        a.Key,
			"severity":   a.Severity,
			"percentage": a.Percentage.String(),
		})
	}
}

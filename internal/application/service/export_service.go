package service

import (
	"context"
	"io"
	"time"

	"github.com/marcos-lima-dev/finance-app/internal/domain/aggregation"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/money"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/export"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// ExportFilter narrows an export by date range and type. Zero fields do not constrain.
type ExportFilter struct {
	From time.Time
	To   time.Time
	Type entity.TransactionType
}

// ExportService writes the transaction list as CSV in the preferred currency
type ExportService struct {
	txRepo    repository.TransactionRepository
	prefs     *PreferencesService
	rates     repository.RateProvider
	logger    logger.Logger
	delimiter rune
	now       func() time.Time
}

// NewExportService creates a new export service. rates may be nil, in which case
// amounts are exported in BRL.
func NewExportService(txRepo repository.TransactionRepository, prefs *PreferencesService, rates repository.RateProvider, delimiter rune, log logger.Logger) *ExportService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &ExportService{
		txRepo:    txRepo,
		prefs:     prefs,
		rates:     rates,
		logger:    log,
		delimiter: delimiter,
		now:       time.Now,
	}
}

// Export writes the matching transactions to w and returns how many were written
func (s *ExportService) Export(ctx context.Context, w io.Writer, f ExportFilter) (int, error) {
	txs, err := s.txRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	selected := aggregation.Filter{Type: f.Type, From: f.From, To: f.To}.Apply(txs)

	formatter, err := s.formatter(ctx)
	if err != nil {
		return 0, err
	}

	if err := export.Write(w, export.Rows(selected, formatter), s.delimiter); err != nil {
		return 0, err
	}

	s.logger.Info("Transactions exported", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"count":      len(selected),
		"currency":   formatter.Currency(),
	})
	return len(selected), nil
}

// FileName is the suggested name of an export made now
func (s *ExportService) FileName() string {
	return export.FileName(s.now().Format("2006-01-02"))
}

// formatter uses the preferred currency when its rate is available and BRL otherwise
func (s *ExportService) formatter(ctx context.Context) (money.Formatter, error) {
	prefs := entity.DefaultPreferences()
	if s.prefs != nil {
		p, err := s.prefs.Get(ctx)
		if err != nil {
			return money.Formatter{}, err
		}
		prefs = p
	}

	if prefs.BaseCurrency == entity.BRL {
		return money.NewFormatter(prefs, nil), nil
	}

	if s.rates != nil {
		if snapshot, err := s.rates.Current(s.now()); err == nil {
			return money.NewFormatter(prefs, &snapshot), nil
		}
	}

	s.logger.Warn("Rates pending, exporting in BRL", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"currency":   prefs.BaseCurrency,
	})
	prefs.BaseCurrency = entity.BRL
	return money.NewFormatter(prefs, nil), nil
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/marcos-lima-dev/finance-app/internal/application/service"
	"github.com/marcos-lima-dev/finance-app/internal/domain/aggregation"
	"github.com/marcos-lima-dev/finance-app/internal/domain/dashboard"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/money"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// DashboardHandler serves the derived dashboard and the alert board
type DashboardHandler struct {
	dashboards *service.DashboardService
	prefs      *service.PreferencesService
	rates      repository.RateProvider
	logger     logger.Logger
	now        func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards *service.DashboardService, prefs *service.PreferencesService, rates repository.RateProvider, log logger.Logger) *DashboardHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &DashboardHandler{
		dashboards: dashboards,
		prefs:      prefs,
		rates:      rates,
		logger:     log,
		now:        time.Now,
	}
}

// GetDashboard handles GET /dashboard?period=&granularity=&window=
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	opts, err := parseOptions(r)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	d, err := h.dashboards.Dashboard(r.Context(), opts)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	prefs, err := h.prefs.Get(r.Context())
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	f := money.NewFormatter(prefs, h.currentRates(prefs.BaseCurrency))
	sendJSON(w, http.StatusOK, DashboardResponse{
		Dashboard: d,
		Formatted: FormattedTotals{
			Currency: string(f.Currency()),
			Credits:  f.Format(d.Totals.TotalCredits),
			Debits:   f.Format(d.Totals.TotalDebits),
			Balance:  f.Format(d.Totals.Balance),
			Goal:     f.Format(prefs.MonthlyGoal),
		},
	})
}

// GetAlerts lists the alerts that have not been dismissed
func (h *DashboardHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.dashboards.Alerts(r.Context())
	if err != nil {
		sendDomainError(w, h.logger, err, middleware.GetRequestID(r.Context()))
		return
	}
	sendJSON(w, http.StatusOK, AlertsResponse{Alerts: alerts})
}

// DismissAlert hides an alert until the next recomputation
func (h *DashboardHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboards.DismissAlert(r.Context(), mux.Vars(r)["key"]); err != nil {
		sendDomainError(w, h.logger, err, middleware.GetRequestID(r.Context()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the dashboard handler routes
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
	router.HandleFunc("/alerts", h.GetAlerts).Methods(http.MethodGet)
	router.HandleFunc("/alerts/{key}/dismiss", h.DismissAlert).Methods(http.MethodPost)
}

// currentRates returns nil while rates are pending or when currency needs none
func (h *DashboardHandler) currentRates(currency entity.Currency) *entity.RateSnapshot {
	if h.rates == nil || currency == entity.BRL {
		return nil
	}
	snapshot, err := h.rates.Current(h.now())
	if err != nil {
		return nil
	}
	return &snapshot
}

func parseOptions(r *http.Request) (dashboard.Options, error) {
	q := r.URL.Query()
	opts := dashboard.Options{}

	period, err := aggregation.ParsePeriod(q.Get("period"))
	if err != nil {
		return opts, err
	}
	opts.Period = period

	granularity, err := aggregation.ParseGranularity(q.Get("granularity"))
	if err != nil {
		return opts, err
	}
	opts.Granularity = granularity

	if raw := q.Get("window"); raw != "" {
		window, err := strconv.Atoi(raw)
		if err != nil || window < 1 {
			return opts, &entity.ValidationError{Field: "window", Message: "must be a positive integer"}
		}
		opts.Window = window
	}
	return opts, nil
}

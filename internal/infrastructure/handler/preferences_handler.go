package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/marcos-lima-dev/finance-app/internal/application/service"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/repository"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// PreferencesHandler serves the user preferences and the exchange rates they depend on
type PreferencesHandler struct {
	prefs  *service.PreferencesService
	rates  repository.RateProvider
	logger logger.Logger
	now    func() time.Time
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(prefs *service.PreferencesService, rates repository.RateProvider, log logger.Logger) *PreferencesHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &PreferencesHandler{prefs: prefs, rates: rates, logger: log, now: time.Now}
}

// GetPreferences returns the current preferences
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Get(r.Context())
	if err != nil {
		sendDomainError(w, h.logger, err, middleware.GetRequestID(r.Context()))
		return
	}
	sendJSON(w, http.StatusOK, prefs)
}

// SavePreferences replaces the preferences
func (h *PreferencesHandler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req PreferencesRequest
	if err := decodeBody(r, &req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	prefs, err := h.prefs.Save(r.Context(), entity.Preferences{
		ThemeDark:    req.ThemeDark,
		BaseCurrency: entity.Currency(req.BaseCurrency),
		MonthlyGoal:  req.MonthlyGoal,
	})
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}
	sendJSON(w, http.StatusOK, prefs)
}

// GetRates returns the current exchange rates, or 503 while they are pending
func (h *PreferencesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.rates.Current(h.now())
	if err != nil {
		sendDomainError(w, h.logger, err, middleware.GetRequestID(r.Context()))
		return
	}
	sendJSON(w, http.StatusOK, RatesResponse{USD: snapshot.USD, EUR: snapshot.EUR, FetchedAt: snapshot.FetchedAt})
}

// RegisterRoutes registers the preferences handler routes
func (h *PreferencesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/preferences", h.GetPreferences).Methods(http.MethodGet)
	router.HandleFunc("/preferences", h.SavePreferences).Methods(http.MethodPut)
	router.HandleFunc("/rates", h.GetRates).Methods(http.MethodGet)
}

package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/marcos-lima-dev/finance-app/internal/application/service"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// LimitHandler handles HTTP requests for category limits
type LimitHandler struct {
	service *service.LimitService
	logger  logger.Logger
}

// NewLimitHandler creates a new limit handler
func NewLimitHandler(service *service.LimitService, log logger.Logger) *LimitHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &LimitHandler{service: service, logger: log}
}

// GetLimits lists every limit
func (h *LimitHandler) GetLimits(w http.ResponseWriter, r *http.Request) {
	limits, err := h.service.GetLimits(r.Context())
	if err != nil {
		sendDomainError(w, h.logger, err, middleware.GetRequestID(r.Context()))
		return
	}
	sendJSON(w, http.StatusOK, LimitsResponse{Limits: limits})
}

// SetLimit sets the limit of the category in the path
func (h *LimitHandler) SetLimit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req LimitRequest
	if err := decodeBody(r, &req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	limits, err := h.service.SetLimit(r.Context(), mux.Vars(r)["category"], req.Limit)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}
	sendJSON(w, http.StatusOK, LimitsResponse{Limits: limits})
}

// RegisterRoutes registers the limit handler routes
func (h *LimitHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/limits", h.GetLimits).Methods(http.MethodGet)
	router.HandleFunc("/limits/{category}", h.SetLimit).Methods(http.MethodPut)
}

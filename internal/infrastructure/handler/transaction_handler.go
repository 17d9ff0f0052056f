// Package handler exposes the application services over HTTP
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/marcos-lima-dev/finance-app/internal/application/service"
	"github.com/marcos-lima-dev/finance-app/internal/domain/aggregation"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// TransactionHandler handles HTTP requests for transactions
type TransactionHandler struct {
	service *service.TransactionService
	logger  logger.Logger
	now     func() time.Time
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *service.TransactionService, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		service: service,
		logger:  log,
		now:     time.Now,
	}
}

// CreateTransaction handles the creation of a new transaction
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	input, ok := h.parseInput(w, r, requestID)
	if !ok {
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), input)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusCreated, toTransactionResponse(*tx))
}

// UpdateTransaction handles replacing a transaction
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	input, ok := h.parseInput(w, r, requestID)
	if !ok {
		return
	}

	tx, err := h.service.UpdateTransaction(r.Context(), id, input)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, toTransactionResponse(*tx))
}

// DeleteTransaction handles removing a transaction
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.service.DeleteTransaction(r.Context(), mux.Vars(r)["id"]); err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTransaction handles retrieving a transaction by ID
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	tx, err := h.service.GetTransaction(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	sendJSON(w, http.StatusOK, toTransactionResponse(*tx))
}

// ListTransactions handles listing transactions. Supported query parameters are
// type, category, from, to (YYYY-MM-DD) and period.
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	filter, err := parseFilter(q.Get("type"), q.Get("category"), q.Get("from"), q.Get("to"))
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	txs, err := h.service.ListTransactions(r.Context(), filter)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	if p := q.Get("period"); p != "" {
		period, err := aggregation.ParsePeriod(p)
		if err != nil {
			sendDomainError(w, h.logger, err, requestID)
			return
		}
		txs = aggregation.FilterByPeriod(txs, period, h.now())
	}

	resp := TransactionListResponse{
		Transactions: make([]TransactionResponse, len(txs)),
		Totals:       aggregation.Summarize(txs),
	}
	for i, tx := range txs {
		resp.Transactions[i] = toTransactionResponse(tx)
	}
	sendJSON(w, http.StatusOK, resp)
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transactions", h.CreateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods(http.MethodGet)
	router.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods(http.MethodPut)
	router.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods(http.MethodDelete)
}

func (h *TransactionHandler) parseInput(w http.ResponseWriter, r *http.Request, requestID string) (service.TransactionInput, bool) {
	var req TransactionRequest
	if err := decodeBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return service.TransactionInput{}, false
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		sendDomainError(w, h.logger, &entity.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"}, requestID)
		return service.TransactionInput{}, false
	}

	return service.TransactionInput{
		Type:        req.Type,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	}, true
}

// parseFilter builds a filter from optional query values
func parseFilter(typ, category, from, to string) (aggregation.Filter, error) {
	var f aggregation.Filter
	var err error

	if typ != "" {
		if f.Type, err = entity.ParseTransactionType(typ); err != nil {
			return f, err
		}
	}
	f.Category = category

	if from != "" {
		if f.From, err = time.Parse(DateLayout, from); err != nil {
			return f, &entity.ValidationError{Field: "from", Message: "must be in YYYY-MM-DD format"}
		}
	}
	if to != "" {
		if f.To, err = time.Parse(DateLayout, to); err != nil {
			return f, &entity.ValidationError{Field: "to", Message: "must be in YYYY-MM-DD format"}
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, &entity.ValidationError{Field: "from", Message: "must not be after 'to'"}
	}
	return f, nil
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Field       string `json:"field,omitempty"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// sendJSON writes v with the given status
func sendJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}

// sendDomainError maps a service error onto its HTTP status
func sendDomainError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	var validation *entity.ValidationError
	var notFound *entity.NotFoundError

	switch {
	case errors.As(err, &validation):
		log.Warn("Validation failed", map[string]interface{}{
			"request_id": requestID,
			"field":      validation.Field,
			"error":      validation.Message,
		})
		sendJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:       "Validation failed",
			Status:      http.StatusBadRequest,
			Field:       validation.Field,
			Description: validation.Error(),
			RequestID:   requestID,
		})
	case errors.As(err, &notFound):
		sendErrorResponse(w, log, "Not found", notFound.Error(), http.StatusNotFound, requestID)
	case errors.Is(err, entity.ErrRatesPending):
		w.Header().Set("Retry-After", "5")
		sendErrorResponse(w, log, "Exchange rates pending",
			"Rates are being refreshed, try again shortly", http.StatusServiceUnavailable, requestID)
	default:
		log.Error("Unexpected error", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Internal server error",
			"An unexpected error occurred", http.StatusInternalServerError, requestID)
	}
}

// decodeBody parses a JSON request body, rejecting unknown fields
func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/marcos-lima-dev/finance-app/internal/application/service"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// ExportHandler serves CSV exports
type ExportHandler struct {
	service *service.ExportService
	logger  logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service *service.ExportService, log logger.Logger) *ExportHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &ExportHandler{service: service, logger: log}
}

// ExportCSV handles GET /export.csv?from=&to=&type=
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	q := r.URL.Query()

	filter, err := parseFilter(q.Get("type"), "", q.Get("from"), q.Get("to"))
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	// Rendered into a buffer so that failures can still produce an error status
	var buf bytes.Buffer
	n, err := h.service.Export(r.Context(), &buf, service.ExportFilter{From: filter.From, To: filter.To, Type: filter.Type})
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.service.FileName()+`"`)
	w.Header().Set("X-Export-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// RegisterRoutes registers the export handler routes
func (h *ExportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/export.csv", h.ExportCSV).Methods(http.MethodGet)
}

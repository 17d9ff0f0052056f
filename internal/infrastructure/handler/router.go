package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/metrics"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/middleware"
)

// RouteRegistrar is implemented by every handler of the API
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// NewRouter builds the API router with the middleware chain and the /metrics endpoint.
// m may be nil, in which case no metrics are recorded or exposed.
func NewRouter(log logger.Logger, m *metrics.Metrics, handlers ...RouteRegistrar) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	if m != nil {
		router.Use(middleware.MetricsMiddleware(m))
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, "Not found", "No route matches "+r.URL.Path, http.StatusNotFound, "")
	})
	return router
}

package routes

import (
	"net/http"

	"github.com/Devyalamaddi/CareConnect/internal/api/handlers"
	"github.com/Devyalamaddi/CareConnect/internal/api/middleware"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/observability"
)

// Router wires the worker's HTTP surface: a few control routes and the
// catch-all interception route everything else falls into.
type Router struct {
	mux *http.ServeMux

	fetchHandler   *handlers.FetchHandler
	messageHandler *handlers.MessageHandler
	healthHandler  *handlers.HealthHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	fetchHandler *handlers.FetchHandler,
	messageHandler *handlers.MessageHandler,
	healthHandler *handlers.HealthHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		fetchHandler:   fetchHandler,
		messageHandler: messageHandler,
		healthHandler:  healthHandler,
		metrics:        metrics,
	}
}

// Handler returns the composed HTTP handler
func (r *Router) Handler() http.Handler {
	r.mux.HandleFunc("GET /healthz", r.healthHandler.Health)

	r.mux.HandleFunc("POST /worker/message", r.messageHandler.PostMessage)
	r.mux.HandleFunc("POST /worker/defer", r.messageHandler.DeferTask)
	r.mux.HandleFunc("POST /worker/sync/{tag}", r.messageHandler.TriggerSync)

	// Every other request is an interception
	r.mux.HandleFunc("/", r.fetchHandler.Intercept)

	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	return handler
}

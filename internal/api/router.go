package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kimen6931/BlockLocker/internal/api/handler"
	"github.com/Kimen6931/BlockLocker/internal/api/middleware"
	"github.com/Kimen6931/BlockLocker/internal/events"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	ProtectionService handler.ProtectionService
	Resolver          handler.Resolver
	// StoragePinger is pinged by the health check (optional)
	StoragePinger handler.Pinger
	MainLoop      handler.MainLoop
	// Events streams resolution events (optional)
	Events *events.Hub
	// MetricsHandler serves /metrics (optional)
	// If nil, the default Prometheus registry is served
	MetricsHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	protectionHandler := handler.NewProtectionHandler(cfg.ProtectionService)
	resolverHandler := handler.NewResolverHandler(cfg.Resolver)
	healthHandler := handler.NewHealthHandler(cfg.StoragePinger, cfg.MainLoop, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Protection routes
	protections := api.PathPrefix("/protections").Subrouter()
	protections.HandleFunc("/{id}", protectionHandler.Put).Methods(http.MethodPut)
	protections.HandleFunc("/{id}", protectionHandler.Get).Methods(http.MethodGet)
	protections.HandleFunc("/{id}", protectionHandler.Delete).Methods(http.MethodDelete)

	// Resolver routes
	api.HandleFunc("/resolver", resolverHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/resolver/flush", resolverHandler.Flush).Methods(http.MethodPost)

	// Resolution event stream
	if cfg.Events != nil {
		api.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			events.ServeSSE(w, r, cfg.Events)
		}).Methods(http.MethodGet)
	}

	// Health check endpoint
	api.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)

	// Prometheus scrape endpoint
	metrics := cfg.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	r.Handle("/metrics", metrics).Methods(http.MethodGet)

	return r
}

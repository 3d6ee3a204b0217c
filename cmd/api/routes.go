package main

import (
	"net/http"

	"github.com/charmbracelet/log"

	httphandlers "superlists/internal/interfaces/http"
	"superlists/internal/shared/config"
	"superlists/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", httphandlers.HandleHealth)

	// Pages
	mux.HandleFunc("GET /{$}", deps.ListHandler.HandleHome)
	mux.HandleFunc("GET /lists/{id}/{$}", deps.ListHandler.HandleViewList)

	// Forms
	mux.HandleFunc("POST /lists/new", deps.ListHandler.HandleNewList)
	mux.HandleFunc("GET /lists/new", httphandlers.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc("POST /lists/{id}/add_item", deps.ListHandler.HandleAddItem)

	// Read-only API
	mux.HandleFunc("GET /api/lists/{id}", deps.ListHandler.HandleListJSON)

	// Tracing reads the matched pattern, so it wraps the mux directly.
	var handler http.Handler = mux
	if cfg.Telemetry.Enabled {
		handler = middleware.Tracing(handler)
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName)(handler)
	}
	handler = middleware.Logging(logger)(handler)

	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
	}

	return handler
}

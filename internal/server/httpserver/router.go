// Package httpserver provides the local admin HTTP endpoint for LanLink.
package httpserver

import (
	"net/http"

	"github.com/lanlink/lanlink-go/internal/telemetry/logger"
)

// RouterConfig holds configuration for the admin router.
type RouterConfig struct {
	// Status supplies the current daemon status. Required.
	Status StatusFunc

	// Metrics is the Prometheus exposition handler. Optional; /metrics
	// returns 404 when nil.
	Metrics http.Handler

	// Logger for request handling.
	Logger logger.Logger
}

// NewRouter creates the admin HTTP router.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := &handler{
		status: cfg.Status,
		log:    log.With("component", "admin"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /status", h.getStatus)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return mux
}

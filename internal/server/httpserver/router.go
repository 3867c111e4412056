// Package httpserver provides the HTTP/HTTPS server for DocMesh.
package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/docmesh-go/internal/core/service"
	"github.com/yndnr/docmesh-go/internal/server/httpserver/handler"
	"github.com/yndnr/docmesh-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// DocumentService handles document administration.
	DocumentService *service.DocumentService

	// Rooms reports realtime room occupancy for the readiness probe.
	// May be nil.
	Rooms handler.RoomStats

	// Metrics is the application metric registry. Its handler is
	// mounted at /metrics.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger *slog.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = allow all).
	CORSAllowedOrigins []string

	// Realtime is the websocket upgrade handler, mounted at RealtimePath.
	// May be nil.
	Realtime http.Handler

	// RealtimePath is the websocket endpoint path.
	RealtimePath string
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	h := handler.New(cfg.DocumentService, cfg.Rooms, cfg.Logger)

	mux := http.NewServeMux()

	// Health endpoints: no CORS, no request logging noise
	probeHandler := Chain(h, RequestID(), Recover(cfg.Logger))
	mux.Handle("GET /health", probeHandler)
	mux.Handle("GET /ready", probeHandler)

	// Metrics endpoint serves the Prometheus exposition format directly
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(cfg.Logger)))
	}

	// Document API
	apiHandler := Chain(h,
		RequestID(),
		Recover(cfg.Logger),
		CORS(cfg.CORSAllowedOrigins),
		RequestLog(cfg.Logger, cfg.Metrics),
	)
	mux.Handle("GET /api/documents", apiHandler)
	mux.Handle("POST /api/documents", apiHandler)
	mux.Handle("GET /api/documents/{id}", apiHandler)
	mux.Handle("DELETE /api/documents/{id}", apiHandler)

	// Realtime websocket endpoint. The gateway does its own origin
	// checking during the upgrade handshake.
	if cfg.Realtime != nil && cfg.RealtimePath != "" {
		mux.Handle("GET "+cfg.RealtimePath, Chain(cfg.Realtime,
			RequestID(),
			Recover(cfg.Logger),
		))
	}

	return mux
}

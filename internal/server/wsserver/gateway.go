// Package wsserver provides the websocket connection gateway for DocMesh.
package wsserver

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/yndnr/docmesh-go/internal/core/domain"
	"github.com/yndnr/docmesh-go/internal/realtime"
	"github.com/yndnr/docmesh-go/internal/telemetry/metric"
)

// GatewayConfig configures the websocket gateway.
type GatewayConfig struct {
	// Hub is the realtime engine.
	Hub *realtime.Hub

	// AllowedOrigins lists Origin values accepted during the upgrade
	// handshake. Empty means same-origin only; "*" accepts any origin.
	AllowedOrigins []string

	// EditRate is the sustained per-connection inbound message budget
	// (messages per second). Zero disables rate limiting.
	EditRate float64

	// EditBurst is the per-connection burst allowance.
	EditBurst int

	// Metrics is the application metric registry.
	Metrics *metric.Registry

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Gateway upgrades HTTP requests to websocket connections and bridges
// them to the realtime hub.
type Gateway struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	editRate rate.Limit
	burst    int
	metrics  *metric.Registry
	logger   *slog.Logger
}

// NewGateway creates a websocket gateway.
func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.Metrics == nil {
		cfg.Metrics = metric.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	g := &Gateway{
		hub:      cfg.Hub,
		editRate: rate.Limit(cfg.EditRate),
		burst:    cfg.EditBurst,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return g
}

// originChecker builds the upgrade-time Origin check. nil falls back to
// gorilla's default same-origin policy.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return set[origin]
	}
}

// ServeHTTP implements http.Handler: it upgrades the request and runs
// the connection until it closes.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		g.logger.Warn("websocket upgrade rejected",
			"remote", r.RemoteAddr,
			"error", err)
		return
	}

	id, err := domain.GenerateConnectionID()
	if err != nil {
		g.logger.Error("connection id generation failed", "error", err)
		conn.Close()
		return
	}

	c := newClient(g, conn, id)
	g.metrics.ConnectionsActive.Inc()
	g.logger.Info("connection opened",
		"connection_id", id,
		"remote", r.RemoteAddr)

	go c.writePump()
	c.readPump()
}

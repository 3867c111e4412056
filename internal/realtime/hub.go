// Package realtime implements the collaborative editing core of DocMesh.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yndnr/docmesh-go/internal/core/domain"
	"github.com/yndnr/docmesh-go/internal/storage"
	"github.com/yndnr/docmesh-go/internal/telemetry/metric"
)

// HubConfig configures the realtime hub.
type HubConfig struct {
	// Store is the durable document store.
	Store storage.DocumentStore

	// FlushInterval is the autosave retry cadence.
	FlushInterval time.Duration

	// Metrics is the application metric registry.
	Metrics *metric.Registry

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Hub wires the registry, relay and autosaver to the document store and
// is the single entry point the connection gateway talks to.
type Hub struct {
	store     storage.DocumentStore
	registry  *Registry
	relay     *Relay
	autosaver *Autosaver
	logger    *slog.Logger
}

// NewHub creates a hub and starts its background workers.
func NewHub(cfg HubConfig) *Hub {
	if cfg.Metrics == nil {
		cfg.Metrics = metric.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	registry := NewRegistry(cfg.Metrics, cfg.Logger)
	return &Hub{
		store:     cfg.Store,
		registry:  registry,
		relay:     NewRelay(registry, cfg.Metrics, cfg.Logger),
		autosaver: NewAutosaver(cfg.Store, cfg.FlushInterval, cfg.Metrics, cfg.Logger),
		logger:    cfg.Logger,
	}
}

// JoinDocument loads (or creates) the document and joins the connection
// to its room. The returned content goes to the requesting connection
// only, never broadcast.
//
// ctx is the connection's context: if the connection closes while the
// store load is in flight, the join is abandoned and the connection is
// not registered.
func (h *Hub) JoinDocument(ctx context.Context, conn Conn, docID string) (string, error) {
	if err := domain.ValidateDocumentID(docID); err != nil {
		return "", err
	}

	doc, err := h.store.GetOrCreate(ctx, docID)
	if err != nil {
		if domain.IsDomainError(err, "") {
			return "", err
		}
		return "", domain.ErrStorageError.WithCause(err)
	}

	// The load may have suspended; a connection that closed meanwhile
	// must not be registered into a room it can never leave.
	if ctx.Err() != nil {
		return "", domain.ErrProtocolViolation.WithDetails("connection closed during join")
	}

	if left := h.registry.Join(conn, docID); left != "" {
		h.logger.Debug("connection rebound to new document",
			"connection_id", conn.ID(),
			"from", left,
			"to", docID)
	}
	return doc.Content, nil
}

// RelayEdit broadcasts an edit operation from conn to its room peers.
func (h *Hub) RelayEdit(conn Conn, payload json.RawMessage) error {
	docID, ok := h.registry.Room(conn)
	if !ok {
		return domain.ErrNotJoined
	}
	h.relay.BroadcastEdit(docID, conn, payload)
	return nil
}

// SaveSnapshot persists the connection's full current content.
func (h *Hub) SaveSnapshot(ctx context.Context, conn Conn, content string) error {
	docID, ok := h.registry.Room(conn)
	if !ok {
		return domain.ErrNotJoined
	}
	return h.autosaver.SaveSnapshot(ctx, docID, content)
}

// Disconnect removes the connection from any room it belongs to.
// Safe to call for connections that never joined.
func (h *Hub) Disconnect(conn Conn) {
	h.registry.Leave(conn)
}

// Registry exposes the room registry (read-mostly consumers: status
// endpoints, tests).
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Autosaver exposes the autosave coordinator (admin delete invalidation,
// shutdown flush).
func (h *Hub) Autosaver() *Autosaver {
	return h.autosaver
}

// Close flushes pending snapshots and stops background workers.
func (h *Hub) Close() error {
	return h.autosaver.Close()
}

// Package realtime implements the collaborative editing core of DocMesh.
package realtime

import (
	"encoding/json"
	"log/slog"

	"github.com/yndnr/docmesh-go/internal/telemetry/metric"
)

// Relay broadcasts edit operations between peers of the same room.
//
// Payloads are opaque and relayed verbatim; the relay never parses,
// reorders or persists them. A peer that is not connected at broadcast
// time permanently misses the operation.
type Relay struct {
	registry *Registry
	metrics  *metric.Registry
	logger   *slog.Logger
}

// NewRelay creates a relay over the given registry.
func NewRelay(registry *Registry, metrics *metric.Registry, logger *slog.Logger) *Relay {
	if metrics == nil {
		metrics = metric.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// BroadcastEdit delivers payload to every member of docID's room except
// the origin connection. Returns the number of peers the operation was
// enqueued to.
//
// Per-sender FIFO holds because each origin connection issues its
// broadcasts from a single reader goroutine, and Send preserves enqueue
// order per peer. Delivery is best-effort: a full or closed peer queue
// drops the operation for that peer only.
func (r *Relay) BroadcastEdit(docID string, origin Conn, payload json.RawMessage) int {
	peers := r.registry.MembersExcept(docID, origin)
	if len(peers) == 0 {
		return 0
	}

	data, err := Encode(Message{
		Type:       TypeEditOperation,
		DocumentID: docID,
		Payload:    payload,
	})
	if err != nil {
		r.logger.Error("encode edit broadcast failed",
			"document_id", docID,
			"error", err)
		return 0
	}

	delivered := 0
	for _, peer := range peers {
		if peer.Send(data) {
			delivered++
			continue
		}
		r.metrics.EditsDropped.Inc()
		r.logger.Warn("edit dropped for peer",
			"document_id", docID,
			"peer_id", peer.ID())
	}

	r.metrics.EditsRelayed.Add(float64(delivered))
	return delivered
}

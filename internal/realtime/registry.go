// Package realtime implements the collaborative editing core of DocMesh.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/yndnr/docmesh-go/internal/telemetry/metric"
)

// Conn is the handle the realtime core holds for a connected client.
// The transport layer implements it.
type Conn interface {
	// ID returns the transport-assigned connection handle.
	ID() string

	// Send enqueues an outbound message without blocking. It reports
	// false if the connection's queue is full or the connection is
	// closed; the caller treats that as a skipped delivery, never as a
	// reason to abort deliveries to other peers.
	Send(data []byte) bool
}

// Registry tracks which connection belongs to which document room.
//
// A connection is a member of at most one room. Rooms are created
// lazily on first join and pruned when the last member leaves. Both
// indexes (room→members and connection→room) are guarded by one mutex
// so they can never disagree.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Conn // document id → connection id → conn
	byConn map[string]string          // connection id → document id

	metrics *metric.Registry
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(metrics *metric.Registry, logger *slog.Logger) *Registry {
	if metrics == nil {
		metrics = metric.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		rooms:   make(map[string]map[string]Conn),
		byConn:  make(map[string]string),
		metrics: metrics,
		logger:  logger,
	}
}

// Join adds the connection to the room for docID.
//
// If the connection is already joined to another document it first
// leaves that room; joining a room the connection is already in is a
// no-op. Returns the document id of the room left, or "".
func (r *Registry) Join(conn Conn, docID string) (left string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if prev, ok := r.byConn[connID]; ok {
		if prev == docID {
			return ""
		}
		r.removeLocked(connID, prev)
		left = prev
	}

	room, ok := r.rooms[docID]
	if !ok {
		room = make(map[string]Conn)
		r.rooms[docID] = room
		r.metrics.RoomsActive.Inc()
	}
	room[connID] = conn
	r.byConn[connID] = docID

	r.logger.Debug("connection joined room",
		"connection_id", connID,
		"document_id", docID,
		"members", len(room))
	return left
}

// Leave removes the connection from whatever room it belongs to.
// Idempotent: leaving while unjoined is a no-op.
func (r *Registry) Leave(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	docID, ok := r.byConn[connID]
	if !ok {
		return
	}
	r.removeLocked(connID, docID)

	r.logger.Debug("connection left room",
		"connection_id", connID,
		"document_id", docID)
}

// removeLocked drops connID from docID's room, pruning the room when it
// empties. Caller holds r.mu.
func (r *Registry) removeLocked(connID, docID string) {
	delete(r.byConn, connID)
	room, ok := r.rooms[docID]
	if !ok {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(r.rooms, docID)
		r.metrics.RoomsActive.Dec()
	}
}

// Room returns the document id the connection is joined to, or "".
func (r *Registry) Room(conn Conn) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docID, ok := r.byConn[conn.ID()]
	return docID, ok
}

// MembersExcept returns every member of docID's room except the given
// connection. The slice is a snapshot; membership may change after it
// is taken, which is acceptable for best-effort fan-out.
func (r *Registry) MembersExcept(docID string, except Conn) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[docID]
	if !ok {
		return nil
	}

	exceptID := except.ID()
	peers := make([]Conn, 0, len(room))
	for id, c := range room {
		if id != exceptID {
			peers = append(peers, c)
		}
	}
	return peers
}

// RoomCount returns the number of non-empty rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// MemberCount returns the number of members in docID's room.
func (r *Registry) MemberCount(docID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[docID])
}

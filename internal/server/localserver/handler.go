// Package localserver provides the local management server.
package localserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yndnr/docmesh-go/internal/infra/buildinfo"
	"github.com/yndnr/docmesh-go/internal/realtime"
	"github.com/yndnr/docmesh-go/internal/storage"
	"github.com/yndnr/docmesh-go/internal/telemetry/logger"
)

// Handler handles local management commands.
type Handler struct {
	registry  *realtime.Registry
	autosaver *realtime.Autosaver
	store     storage.DocumentStore
	startedAt time.Time
}

// NewHandler creates a new Handler. Any dependency may be nil; the
// corresponding status fields are omitted and flush becomes a no-op.
func NewHandler(registry *realtime.Registry, autosaver *realtime.Autosaver, store storage.DocumentStore) *Handler {
	return &Handler{
		registry:  registry,
		autosaver: autosaver,
		store:     store,
		startedAt: time.Now(),
	}
}

// statusInfo is the JSON payload for the status command.
type statusInfo struct {
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Rooms         int    `json:"rooms"`
	Documents     int    `json:"documents"`
	PendingSaves  int    `json:"pending_saves"`
	LogLevel      string `json:"log_level"`
}

// Execute executes a local management command.
func (h *Handler) Execute(w io.Writer, cmd string, args []string) error {
	switch cmd {
	case "ping":
		_, err := io.WriteString(w, "pong\n")
		return err
	case "status":
		return h.handleStatus(w)
	case "flush":
		return h.handleFlush(w)
	case "loglevel":
		return h.handleLogLevel(w, args)
	default:
		_, err := io.WriteString(w, "unknown command: "+cmd+"\n")
		return err
	}
}

func (h *Handler) handleStatus(w io.Writer) error {
	info := statusInfo{
		Version:       buildinfo.String(),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		LogLevel:      logger.GetLevel(),
	}
	if h.registry != nil {
		info.Rooms = h.registry.RoomCount()
	}
	if h.autosaver != nil {
		info.PendingSaves = h.autosaver.PendingCount()
	}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if ids, err := h.store.List(ctx); err == nil {
			info.Documents = len(ids)
		}
	}

	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func (h *Handler) handleFlush(w io.Writer) error {
	if h.autosaver == nil {
		_, err := io.WriteString(w, "flush: no autosaver\n")
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.autosaver.Flush(ctx); err != nil {
		_, werr := fmt.Fprintf(w, "flush failed: %v\n", err)
		return werr
	}
	_, err := io.WriteString(w, "flush: ok\n")
	return err
}

func (h *Handler) handleLogLevel(w io.Writer, args []string) error {
	if len(args) == 0 {
		_, err := fmt.Fprintf(w, "loglevel: %s\n", logger.GetLevel())
		return err
	}

	logger.SetLevel(args[0])
	_, err := fmt.Fprintf(w, "loglevel set to %s\n", strings.ToLower(args[0]))
	return err
}

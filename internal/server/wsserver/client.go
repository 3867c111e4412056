// Package wsserver provides the websocket connection gateway for DocMesh.
package wsserver

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/yndnr/docmesh-go/internal/core/domain"
	"github.com/yndnr/docmesh-go/internal/realtime"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendQueueSize is the per-connection outbound buffer. A slow
	// consumer that falls this far behind starts missing broadcasts.
	sendQueueSize = 256
)

// client is one websocket connection. It implements realtime.Conn.
type client struct {
	gw   *Gateway
	conn *websocket.Conn
	id   string

	send    chan []byte
	limiter *rate.Limiter

	// ctx is canceled when the connection is torn down, aborting any
	// in-flight hub call made on this connection's behalf.
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

func newClient(gw *Gateway, conn *websocket.Conn, id string) *client {
	ctx, cancel := context.WithCancel(context.Background())

	var limiter *rate.Limiter
	if gw.editRate > 0 {
		limiter = rate.NewLimiter(gw.editRate, gw.burst)
	}

	return &client{
		gw:      gw,
		conn:    conn,
		id:      id,
		send:    make(chan []byte, sendQueueSize),
		limiter: limiter,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID implements realtime.Conn.
func (c *client) ID() string { return c.id }

// Send implements realtime.Conn. It never blocks: a full queue or a
// closed connection drops the message and reports false.
func (c *client) Send(data []byte) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// sendMessage encodes and enqueues a protocol message to this client.
func (c *client) sendMessage(m realtime.Message) {
	data, err := realtime.Encode(m)
	if err != nil {
		c.gw.logger.Error("encode message failed",
			"connection_id", c.id,
			"type", m.Type,
			"error", err)
		return
	}
	c.Send(data)
}

// readPump reads and dispatches inbound frames. It is the connection's
// single reader, which keeps this sender's operations in arrival order.
func (c *client) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(realtime.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.gw.logger.Warn("connection read failed",
					"connection_id", c.id,
					"error", err)
			}
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			c.gw.metrics.EditsDropped.Inc()
			c.sendMessage(realtime.ErrorMessage(domain.ErrEditRateExceeded))
			continue
		}

		c.dispatch(data)
	}
}

// dispatch handles one inbound message. A rejected message produces an
// error frame; the connection itself stays up.
func (c *client) dispatch(data []byte) {
	// Handler panics must not take down the process; the deferred
	// recover confines them to this connection.
	defer func() {
		if r := recover(); r != nil {
			c.gw.logger.Error("panic in message dispatch",
				"connection_id", c.id,
				"panic", r)
			c.sendMessage(realtime.ErrorMessage(domain.ErrInternalServer))
		}
	}()

	m, err := realtime.Decode(data)
	if err != nil {
		c.sendMessage(realtime.ErrorMessage(err))
		return
	}

	switch m.Type {
	case realtime.TypeRequestDocument:
		content, err := c.gw.hub.JoinDocument(c.ctx, c, m.DocumentID)
		if err != nil {
			c.sendMessage(realtime.ErrorMessage(err))
			return
		}
		c.sendMessage(realtime.Message{
			Type:       realtime.TypeDocumentLoaded,
			DocumentID: m.DocumentID,
			Content:    content,
		})

	case realtime.TypeEditOperation:
		if err := c.gw.hub.RelayEdit(c, m.Payload); err != nil {
			c.sendMessage(realtime.ErrorMessage(err))
		}

	case realtime.TypeSaveSnapshot:
		// A failed save degrades the session, it does not end it.
		if err := c.gw.hub.SaveSnapshot(c.ctx, c, m.Content); err != nil {
			c.sendMessage(realtime.ErrorMessage(err))
		}

	default:
		c.sendMessage(realtime.ErrorMessage(
			domain.ErrProtocolViolation.WithDetails("unknown message type: " + m.Type)))
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings. It exits when the queue closes or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// teardown releases everything the connection holds. Runs exactly once.
func (c *client) teardown() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.gw.hub.Disconnect(c)
		c.conn.Close()
		c.gw.metrics.ConnectionsActive.Dec()
		c.gw.logger.Info("connection closed", "connection_id", c.id)
	})
}

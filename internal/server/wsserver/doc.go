// Package wsserver provides the websocket connection gateway for DocMesh.
//
// The gateway owns transport concerns only: upgrade handshake, framing,
// per-connection send queues, liveness pings and inbound rate limiting.
// Editing semantics live in internal/realtime; the gateway translates
// wire messages into hub calls and hub results back into frames.
//
// Each connection runs two goroutines:
//
//   - readPump: reads frames, decodes, dispatches to the hub. Being the
//     single reader preserves per-sender operation order.
//   - writePump: drains the buffered send queue and emits pings.
//
// A connection whose send queue is full misses broadcasts rather than
// blocking the room.
package wsserver

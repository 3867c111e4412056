// Package realtime implements the collaborative editing core of DocMesh:
// the room registry, the edit relay, and the autosave coordinator.
//
// Architecture:
//
//   - Registry: owns room membership. Rooms are created lazily on first
//     join and pruned when the last member leaves. No component outside
//     this package may mutate membership.
//   - Relay: fans an edit operation out to every other member of the
//     sender's room. Edits are opaque payloads, relayed verbatim and
//     never persisted.
//   - Autosaver: write-through persistence of full-content snapshots,
//     with background retry of failed writes.
//   - Hub: the façade the connection gateway talks to. It wires the
//     three components to the document store and enforces the
//     per-connection state machine (Unjoined → Joined → Unjoined).
//
// Delivery guarantees: FIFO per sender (a sender's operations reach
// each peer in send order), best-effort per peer (a slow or dead peer
// is skipped, never waited on), no replay for absent peers.
package realtime

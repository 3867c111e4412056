// Package domain defines the core domain models for DocMesh.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Document: the shared text document entity
//   - Connection: identity helpers for realtime connection handles
//   - Errors: domain-specific error definitions
//
// Everything else in the system (rooms, relays, stores) refers to
// documents and connections through the identities defined here.
package domain

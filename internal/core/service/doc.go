// Package service provides domain services for DocMesh.
//
// Domain services contain pure business logic and orchestrate operations
// on domain models. They define interfaces for storage dependencies,
// allowing for dependency injection and testability.
//
// This package contains:
//
//   - DocumentService: administrative document CRUD used by the HTTP API
//     and the CLI.
//
// Services are stateless and thread-safe. Realtime session traffic
// bypasses this layer and talks to the hub directly; the service exists
// for the out-of-band administrative surface.
package service

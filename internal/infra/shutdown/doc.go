// Package shutdown provides graceful shutdown for DocMesh.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Named cleanup hook registration
//   - Shutdown coordination
//
// Hooks run in reverse registration order so dependents stop before
// their dependencies. The server registers, in order: store close,
// realtime hub close (final snapshot flush), listeners.
package shutdown

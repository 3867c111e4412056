// Package localserver provides Unix socket server for local management.
//
// This package implements a local-only management interface via Unix
// domain socket. It bypasses the HTTP surface for on-host
// administrative operations:
//
//   - Server status (rooms, pending snapshots, build info)
//   - Forced snapshot flush
//   - Log level changes at runtime
//
// Security:
//
//   - Only accessible via Unix domain socket
//   - File system permissions control access
//   - Physical/local access only
package localserver

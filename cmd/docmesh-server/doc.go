// Package main provides the entry point for docmesh-server.
//
// The server is the core DocMesh service that provides:
//
//   - Websocket endpoint for realtime collaborative editing
//   - HTTP/HTTPS admin API for document management
//   - Prometheus metrics and health probes
//   - Local Unix socket for management access
//
// Usage:
//
//	docmesh-server [flags]
//	docmesh-server --config /path/to/config.yaml
//
// The server loads configuration, initializes infrastructure components,
// and starts all configured listeners.
package main

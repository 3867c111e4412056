// Package httpserver provides the HTTP/HTTPS server for DocMesh.
//
// This package implements the administrative API using stdlib net/http:
//
//   - Document endpoints: /api/documents, /api/documents/{id}
//   - Health endpoints: /health, /ready, /metrics
//   - Realtime websocket endpoint mounted at a configurable path
//
// Features:
//
//   - TLS support
//   - Middleware chain: Recover, CORS, RequestID, RequestLog
//   - Graceful shutdown with configurable timeout
//   - Prometheus metrics integration
package httpserver

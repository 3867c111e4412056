// Package connection provides server communication for docmesh-cli.
//
// Two transports are supported:
//
//   - http.go: JSON admin API access over HTTP/HTTPS
//   - socket.go: local Unix socket access for management commands
//
// The HTTP client speaks the standard response envelope used by the
// admin API; ParseResponse unwraps it and surfaces server-side error
// codes as Go errors.
package connection

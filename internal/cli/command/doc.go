// Package command provides CLI command definitions for docmesh-cli.
//
// Structure:
//
//   - root.go: application skeleton, global flags
//   - document.go: document administration (list, get, create, delete)
//   - tail.go: live session follower over the realtime endpoint
//   - system.go: local management over the Unix socket
//
// Document commands talk HTTP to the admin API; system commands use
// the local socket and therefore need no network access to the server.
package command

// Package main provides the entry point for docmesh-cli.
//
// The CLI tool provides command-line access to a DocMesh server for:
//
//   - Document administration (list, get, create, delete)
//   - Following live editing sessions (tail)
//   - Local server management over the Unix socket (ping, status,
//     flush, loglevel)
//
// Usage:
//
//	docmesh-cli [command] [flags]
//	docmesh-cli doc list --output json
//	docmesh-cli tail my-document
//	docmesh-cli system status
package main

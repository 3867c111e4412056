// Package metric provides Prometheus metrics for DocMesh.
//
// It exposes realtime collaboration metrics (connections, rooms, relay
// throughput), persistence metrics (snapshot saves, latencies), and
// HTTP request metrics on the /metrics endpoint.
package metric

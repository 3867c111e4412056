// Package metric provides Prometheus metrics for DocMesh.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics on a private Prometheus
// registry, so tests can create isolated instances without hitting
// duplicate-registration panics on the global default.
type Registry struct {
	reg *prometheus.Registry

	// Realtime metrics
	ConnectionsActive prometheus.Gauge
	RoomsActive       prometheus.Gauge
	EditsRelayed      prometheus.Counter
	EditsDropped      prometheus.Counter

	// Persistence metrics
	SnapshotsSaved  prometheus.Counter
	SnapshotsFailed prometheus.Counter
	SaveDuration    prometheus.Histogram

	// Admin API metrics
	DocumentsCreated prometheus.Counter
	DocumentsDeleted prometheus.Counter
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// NewRegistry creates a registry with all application metrics plus the
// standard Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docmesh_connections_active",
			Help: "Number of currently open realtime connections.",
		}),
		RoomsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docmesh_rooms_active",
			Help: "Number of rooms with at least one member.",
		}),
		EditsRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docmesh_edits_relayed_total",
			Help: "Edit operations delivered to peers.",
		}),
		EditsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docmesh_edits_dropped_total",
			Help: "Edit operations dropped because a peer's outbound queue was full.",
		}),

		SnapshotsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docmesh_snapshots_saved_total",
			Help: "Content snapshots persisted to the document store.",
		}),
		SnapshotsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docmesh_snapshots_failed_total",
			Help: "Content snapshot writes that failed.",
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "docmesh_snapshot_save_seconds",
			Help:    "Latency of snapshot writes to the document store.",
			Buckets: prometheus.DefBuckets,
		}),

		DocumentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docmesh_documents_created_total",
			Help: "Documents created via the admin API or upsert-on-read.",
		}),
		DocumentsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docmesh_documents_deleted_total",
			Help: "Documents deleted via the admin API.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docmesh_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docmesh_http_request_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		r.ConnectionsActive,
		r.RoomsActive,
		r.EditsRelayed,
		r.EditsDropped,
		r.SnapshotsSaved,
		r.SnapshotsFailed,
		r.SaveDuration,
		r.DocumentsCreated,
		r.DocumentsDeleted,
		r.RequestsTotal,
		r.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gather exposes the underlying gatherer, mainly for tests.
func (r *Registry) Gather() prometheus.Gatherer {
	return r.reg
}

// Package storage provides durable document persistence for DocMesh.
//
// The primary implementation is BadgerStore, backed by an embedded
// Badger v3 database: one record per document, keyed by identifier,
// value = the encoded document (optionally encrypted at rest).
// MemoryStore implements the same interface for tests and dev mode.
//
// The store is the sole source of truth at rest. It must tolerate
// concurrent GetOrCreate/Put for the same document id: last-write-wins
// is acceptable, corruption is not.
package storage

// Package cmap provides a concurrent-safe sharded map keyed by string.
//
// It uses sharding to reduce lock contention, providing better
// performance than a single mutex-guarded map when many goroutines
// touch unrelated keys (distinct rooms, distinct documents).
//
// Keys are strings because every identity in DocMesh (document id,
// connection handle) is a string; shard selection hashes the key with
// murmur3.
package cmap

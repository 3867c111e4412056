// Package realtime implements the collaborative editing core of DocMesh.
package realtime

import (
	"context"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/yndnr/docmesh-go/internal/core/domain"
	"github.com/yndnr/docmesh-go/internal/storage"
	"github.com/yndnr/docmesh-go/internal/telemetry/metric"

	"github.com/yndnr/docmesh-go/pkg/cmap"
)

// DefaultFlushInterval is the retry cadence for snapshot writes that
// failed their write-through attempt.
const DefaultFlushInterval = 2 * time.Second

// Autosaver persists full-content snapshots emitted by joined
// connections.
//
// Saves are write-through upserts so a snapshot is visible to the next
// join immediately; a document deleted concurrently by the admin API is
// recreated with the saved content. A write that fails is parked and
// retried by the background flush loop, keeping the session alive in a
// degraded (unsaved) state rather than terminating it.
//
// Concurrent saves from multiple peers of the same document race and
// the last write wins. That is an accepted tradeoff, not a merge.
type Autosaver struct {
	store    storage.DocumentStore
	interval time.Duration

	// pending holds content whose write failed, keyed by document id.
	pending *cmap.Map[string]

	// saved holds a hash of the last content persisted per document,
	// to skip writes that would change nothing.
	saved *cmap.Map[uint64]

	metrics *metric.Registry
	logger  *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewAutosaver creates an autosaver and starts its flush loop.
func NewAutosaver(store storage.DocumentStore, interval time.Duration, metrics *metric.Registry, logger *slog.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	if metrics == nil {
		metrics = metric.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Autosaver{
		store:    store,
		interval: interval,
		pending:  cmap.New[string](),
		saved:    cmap.New[uint64](),
		metrics:  metrics,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	go a.flushLoop()
	return a
}

// SaveSnapshot upserts content for docID into the document store.
//
// Returns a degraded-state error (DM-SYS-5001) when the write fails;
// callers log it but must not terminate the connection, the flush loop
// will retry.
func (a *Autosaver) SaveSnapshot(ctx context.Context, docID, content string) error {
	if err := domain.ValidateDocumentID(docID); err != nil {
		return err
	}
	if err := domain.ValidateContent(content); err != nil {
		return err
	}

	sum := contentHash(content)
	if prev, ok := a.saved.Get(docID); ok && prev == sum {
		if _, dirty := a.pending.Get(docID); !dirty {
			return nil
		}
	}

	if err := a.persist(ctx, docID, content, sum); err != nil {
		a.pending.Set(docID, content)
		return err
	}
	a.pending.Delete(docID)
	return nil
}

// Invalidate forgets the last-saved state for docID. The admin delete
// path calls this so a later identical snapshot recreates the document
// instead of being skipped as unchanged.
func (a *Autosaver) Invalidate(docID string) {
	a.saved.Delete(docID)
	a.pending.Delete(docID)
}

// Flush writes all parked snapshots immediately. Used on shutdown.
func (a *Autosaver) Flush(ctx context.Context) error {
	// Collect first: Range holds the shard lock, so mutating the map
	// from inside the callback would deadlock.
	type parked struct {
		docID   string
		content string
	}
	var entries []parked
	a.pending.Range(func(docID, content string) bool {
		entries = append(entries, parked{docID: docID, content: content})
		return true
	})

	var lastErr error
	for _, e := range entries {
		if err := a.persist(ctx, e.docID, e.content, contentHash(e.content)); err != nil {
			lastErr = err
			continue
		}
		// A newer snapshot parked while this one was being written
		// stays pending for the next retry.
		a.pending.DeleteIf(e.docID, func(v string) bool { return v == e.content })
	}
	return lastErr
}

// PendingCount reports how many documents have an unflushed snapshot.
func (a *Autosaver) PendingCount() int {
	return a.pending.Count()
}

// Close stops the flush loop after a final flush attempt.
func (a *Autosaver) Close() error {
	close(a.stopCh)
	<-a.doneCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Flush(ctx)
}

func (a *Autosaver) persist(ctx context.Context, docID, content string, sum uint64) error {
	start := time.Now()
	if err := a.store.Put(ctx, docID, content); err != nil {
		a.metrics.SnapshotsFailed.Inc()
		a.logger.Error("snapshot save failed",
			"document_id", docID,
			"error", err)
		if domain.IsDomainError(err, "") {
			return err
		}
		return domain.ErrStorageError.WithCause(err)
	}

	a.metrics.SnapshotsSaved.Inc()
	a.metrics.SaveDuration.Observe(time.Since(start).Seconds())
	a.saved.Set(docID, sum)
	return nil
}

func (a *Autosaver) flushLoop() {
	defer close(a.doneCh)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.pending.Count() == 0 {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), a.interval)
			if err := a.Flush(ctx); err != nil {
				a.logger.Warn("snapshot retry flush incomplete", "error", err)
			}
			cancel()

		case <-a.stopCh:
			return
		}
	}
}

func contentHash(content string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(content))
	return h.Sum64()
}

package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/docmesh-go/internal/core/domain"
	"github.com/yndnr/docmesh-go/internal/storage"
)

// flakyStore wraps a MemoryStore and fails Put while failing is set.
type flakyStore struct {
	*storage.MemoryStore

	mu      sync.Mutex
	failing bool
	puts    int
}

func (s *flakyStore) Put(ctx context.Context, id, content string) error {
	s.mu.Lock()
	s.puts++
	failing := s.failing
	s.mu.Unlock()
	if failing {
		return errors.New("disk on fire")
	}
	return s.MemoryStore.Put(ctx, id, content)
}

func (s *flakyStore) setFailing(v bool) {
	s.mu.Lock()
	s.failing = v
	s.mu.Unlock()
}

func (s *flakyStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func newAutosaverForTest(t *testing.T, store storage.DocumentStore, interval time.Duration) *Autosaver {
	t.Helper()
	a := NewAutosaver(store, interval, nil, nil)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSaveSnapshotWritesThrough(t *testing.T) {
	store := storage.NewMemoryStore()
	a := newAutosaverForTest(t, store, time.Hour)
	ctx := context.Background()

	if err := a.SaveSnapshot(ctx, "doc1", "hello"); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	// The snapshot is visible to the next load immediately, no flush
	// cycle needed.
	doc, err := store.Get(ctx, "doc1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc.Content != "hello" {
		t.Errorf("content = %q, want hello", doc.Content)
	}
	if a.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0", a.PendingCount())
	}
}

func TestSaveSnapshotSkipsUnchangedContent(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	a := newAutosaverForTest(t, store, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := a.SaveSnapshot(ctx, "doc1", "same"); err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
	}
	if got := store.putCount(); got != 1 {
		t.Errorf("store writes = %d, want 1 (identical snapshots skipped)", got)
	}

	if err := a.SaveSnapshot(ctx, "doc1", "changed"); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if got := store.putCount(); got != 2 {
		t.Errorf("store writes = %d, want 2 after content change", got)
	}
}

func TestSaveSnapshotInvalidInput(t *testing.T) {
	a := newAutosaverForTest(t, storage.NewMemoryStore(), time.Hour)
	ctx := context.Background()

	err := a.SaveSnapshot(ctx, "", "content")
	if domain.GetErrorCode(err) != domain.ErrMissingArgument.Code {
		t.Errorf("empty id error = %v, want %s", err, domain.ErrMissingArgument.Code)
	}

	big := make([]byte, domain.MaxContentLength+1)
	err = a.SaveSnapshot(ctx, "doc1", string(big))
	if domain.GetErrorCode(err) != domain.ErrDocumentValidation.Code {
		t.Errorf("oversized content error = %v, want %s", err, domain.ErrDocumentValidation.Code)
	}
}

func TestSaveSnapshotParksFailedWriteAndRetries(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	a := newAutosaverForTest(t, store, 20*time.Millisecond)
	ctx := context.Background()

	store.setFailing(true)
	err := a.SaveSnapshot(ctx, "doc1", "v1")
	if domain.GetErrorCode(err) != domain.ErrStorageError.Code {
		t.Fatalf("SaveSnapshot() error = %v, want %s", err, domain.ErrStorageError.Code)
	}
	if a.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d, want 1", a.PendingCount())
	}

	// Heal the store; the flush loop should drain pending on its own.
	store.setFailing(false)
	deadline := time.Now().Add(2 * time.Second)
	for a.PendingCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("pending snapshot never retried")
		}
		time.Sleep(10 * time.Millisecond)
	}

	doc, err := store.Get(ctx, "doc1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc.Content != "v1" {
		t.Errorf("content = %q, want v1", doc.Content)
	}
}

func TestSaveSnapshotRecreatesDeletedDocument(t *testing.T) {
	store := storage.NewMemoryStore()
	a := newAutosaverForTest(t, store, time.Hour)
	ctx := context.Background()

	if err := a.SaveSnapshot(ctx, "doc1", "v1"); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if err := store.Delete(ctx, "doc1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Admin delete notifies the autosaver so the next snapshot is not
	// skipped as unchanged.
	a.Invalidate("doc1")

	if err := a.SaveSnapshot(ctx, "doc1", "v1"); err != nil {
		t.Fatalf("SaveSnapshot() after delete error = %v", err)
	}

	doc, err := store.Get(ctx, "doc1")
	if err != nil {
		t.Fatalf("deleted document not recreated: %v", err)
	}
	if doc.Content != "v1" {
		t.Errorf("content = %q, want v1", doc.Content)
	}
}

func TestFlushDrainsAllPending(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	a := newAutosaverForTest(t, store, time.Hour)
	ctx := context.Background()

	store.setFailing(true)
	a.SaveSnapshot(ctx, "doc1", "a")
	a.SaveSnapshot(ctx, "doc2", "b")
	if a.PendingCount() != 2 {
		t.Fatalf("PendingCount() = %d, want 2", a.PendingCount())
	}

	store.setFailing(false)
	if err := a.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if a.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after flush, want 0", a.PendingCount())
	}

	for id, want := range map[string]string{"doc1": "a", "doc2": "b"} {
		doc, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if doc.Content != want {
			t.Errorf("content(%s) = %q, want %q", id, doc.Content, want)
		}
	}
}

// hookStore runs onPut before delegating to the inner MemoryStore.
type hookStore struct {
	*storage.MemoryStore
	onPut func(id string)
}

func (s *hookStore) Put(ctx context.Context, id, content string) error {
	if s.onPut != nil {
		s.onPut(id)
	}
	return s.MemoryStore.Put(ctx, id, content)
}

func TestFlushCompletesWithPendingEntries(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	a := newAutosaverForTest(t, store, time.Hour)
	ctx := context.Background()

	store.setFailing(true)
	a.SaveSnapshot(ctx, "doc1", "v1")
	store.setFailing(false)

	// Flush mutates the pending map it is iterating; run it under a
	// watchdog so a lock-ordering regression fails fast instead of
	// hanging the suite.
	done := make(chan error, 1)
	go func() { done <- a.Flush(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Flush() did not return with a pending entry parked")
	}

	if a.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after flush, want 0", a.PendingCount())
	}
}

func TestFlushKeepsSnapshotParkedDuringRetry(t *testing.T) {
	store := &hookStore{MemoryStore: storage.NewMemoryStore()}
	a := newAutosaverForTest(t, store, time.Hour)
	ctx := context.Background()

	a.pending.Set("doc1", "v1")

	// A peer parks a newer snapshot while the retry write is in
	// flight; the flush must not discard it.
	store.onPut = func(id string) {
		a.pending.Set(id, "v2")
	}

	if err := a.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	got, ok := a.pending.Get("doc1")
	if !ok || got != "v2" {
		t.Errorf("pending content = %q (present=%v), want v2 still parked", got, ok)
	}
}

func TestCloseFlushesPending(t *testing.T) {
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	a := NewAutosaver(store, time.Hour, nil, nil)
	ctx := context.Background()

	store.setFailing(true)
	a.SaveSnapshot(ctx, "doc1", "final")
	store.setFailing(false)

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	doc, err := store.Get(ctx, "doc1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc.Content != "final" {
		t.Errorf("content = %q, want final", doc.Content)
	}
}

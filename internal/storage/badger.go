// Package storage provides durable document persistence for DocMesh.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/docmesh-go/internal/core/domain"
)

// docKeyPrefix namespaces document records in the key space.
const docKeyPrefix = "doc:"

// maxTxnRetries bounds retries of transactions aborted by Badger's
// conflict detection (concurrent GetOrCreate on the same id).
const maxTxnRetries = 8

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// Dir is the storage directory.
	Dir string

	// SyncWrites enables fsync after each write.
	// Default: true (the store is the only durability layer).
	SyncWrites bool

	// GCInterval is the interval between value-log GC runs.
	// Default: 10m
	GCInterval time.Duration

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// EncryptionKey optionally encrypts content at rest (empty = off).
	EncryptionKey string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:         dir,
		SyncWrites:  true,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
	}
}

// BadgerStore implements DocumentStore on an embedded Badger v3 database.
type BadgerStore struct {
	db     *badger.DB
	cipher *Cipher
	logger *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerStore opens (or creates) the database and starts the
// background GC loop.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("storage: dir is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 || cfg.GCThreshold > 1 {
		cfg.GCThreshold = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = &badgerLogger{logger: cfg.Logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		cipher: NewCipher(cfg.EncryptionKey),
		logger: cfg.Logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go s.gcLoop(cfg.GCInterval, cfg.GCThreshold)

	cfg.Logger.Info("badger store opened",
		"dir", cfg.Dir,
		"sync_writes", cfg.SyncWrites,
		"encrypted", s.cipher != nil)

	return s, nil
}

// Get reads the current content for id without creating it.
func (s *BadgerStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	if err := domain.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	var doc *domain.Document
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = s.readDocument(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetOrCreate returns the existing document, or atomically creates it
// with empty content. Badger's transaction conflict detection guarantees
// at most one creation under concurrent calls; losers retry and observe
// the created record.
func (s *BadgerStore) GetOrCreate(ctx context.Context, id string) (*domain.Document, error) {
	if err := domain.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	var doc *domain.Document
	err := s.updateWithRetry(func(txn *badger.Txn) error {
		existing, err := s.readDocument(txn, id)
		if err == nil {
			doc = existing
			return nil
		}
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			return err
		}

		doc = domain.NewDocument(id)
		return s.writeDocument(txn, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Create creates an empty document, failing if the id is taken.
func (s *BadgerStore) Create(ctx context.Context, id string) error {
	if err := domain.ValidateDocumentID(id); err != nil {
		return err
	}

	return s.updateWithRetry(func(txn *badger.Txn) error {
		_, err := txn.Get(docKey(id))
		if err == nil {
			return domain.ErrDocumentExists.WithDetails("id=" + id)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrStorageError.WithCause(err)
		}
		return s.writeDocument(txn, domain.NewDocument(id))
	})
}

// Put overwrites the stored content for id, creating the record if absent.
func (s *BadgerStore) Put(ctx context.Context, id, content string) error {
	if err := domain.ValidateDocumentID(id); err != nil {
		return err
	}
	if err := domain.ValidateContent(content); err != nil {
		return err
	}

	doc := &domain.Document{ID: id, Content: content}
	doc.Touch()

	return s.updateWithRetry(func(txn *badger.Txn) error {
		return s.writeDocument(txn, doc)
	})
}

// Delete removes the document. Absent ids return ErrDocumentNotFound.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := domain.ValidateDocumentID(id); err != nil {
		return err
	}

	return s.updateWithRetry(func(txn *badger.Txn) error {
		if _, err := txn.Get(docKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrDocumentNotFound.WithDetails("id=" + id)
			}
			return domain.ErrStorageError.WithCause(err)
		}
		if err := txn.Delete(docKey(id)); err != nil {
			return domain.ErrStorageError.WithCause(err)
		}
		return nil
	})
}

// List returns all document ids, sorted, without touching values.
func (s *BadgerStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, 16)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(docKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			ids = append(ids, string(key[len(docKeyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}

	sort.Strings(ids)
	return ids, nil
}

// Close stops the GC loop and closes the database.
func (s *BadgerStore) Close() error {
	close(s.stopCh)
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("storage: close db: %w", err)
	}
	s.logger.Info("badger store closed")
	return nil
}

// readDocument decodes the record for id inside a transaction.
func (s *BadgerStore) readDocument(txn *badger.Txn, id string) (*domain.Document, error) {
	item, err := txn.Get(docKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrDocumentNotFound.WithDetails("id=" + id)
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}

	sealed, err := item.ValueCopy(nil)
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}

	raw, err := s.cipher.Open(sealed)
	if err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, domain.ErrStorageError.WithCause(err)
	}
	return &doc, nil
}

// writeDocument encodes and stores a document inside a transaction.
func (s *BadgerStore) writeDocument(txn *badger.Txn, doc *domain.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	sealed, err := s.cipher.Seal(raw)
	if err != nil {
		return domain.ErrStorageError.WithCause(err)
	}

	if err := txn.Set(docKey(doc.ID), sealed); err != nil {
		return domain.ErrStorageError.WithCause(err)
	}
	return nil
}

// updateWithRetry runs fn in an update transaction, retrying on
// optimistic-concurrency conflicts.
func (s *BadgerStore) updateWithRetry(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxTxnRetries; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return domain.ErrStorageError.WithCause(err)
}

// gcLoop runs periodic value-log garbage collection.
func (s *BadgerStore) gcLoop(interval time.Duration, threshold float64) {
	defer close(s.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// RunValueLogGC returns ErrNoRewrite when nothing to do.
			if err := s.db.RunValueLogGC(threshold); err != nil &&
				!errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("badger gc failed", "error", err)
			}
		case <-s.stopCh:
			return
		}
	}
}

func docKey(id string) []byte {
	return []byte(docKeyPrefix + id)
}

// badgerLogger adapts slog.Logger to Badger's logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf("badger: "+format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf("badger: "+format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf("badger: "+format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf("badger: "+format, args...))
}

package service

import (
	"context"
	"log/slog"

	"github.com/yndnr/docmesh-go/internal/core/domain"
	"github.com/yndnr/docmesh-go/internal/storage"
	"github.com/yndnr/docmesh-go/internal/telemetry/metric"
)

// SnapshotInvalidator receives document deletion notices so cached
// last-saved state does not suppress a later resurrecting snapshot.
// The realtime autosaver implements it.
type SnapshotInvalidator interface {
	Invalidate(docID string)
}

// noopInvalidator is used when no realtime engine is attached (CLI
// maintenance against a store directory, tests).
type noopInvalidator struct{}

func (noopInvalidator) Invalidate(string) {}

// DocumentService handles administrative document operations.
type DocumentService struct {
	store       storage.DocumentStore
	invalidator SnapshotInvalidator
	metrics     *metric.Registry
	logger      *slog.Logger
}

// NewDocumentService creates a new DocumentService. invalidator may be
// nil when no realtime engine is running.
func NewDocumentService(store storage.DocumentStore, invalidator SnapshotInvalidator, metrics *metric.Registry, logger *slog.Logger) *DocumentService {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	if metrics == nil {
		metrics = metric.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		store:       store,
		invalidator: invalidator,
		metrics:     metrics,
		logger:      logger,
	}
}

// List returns the identifiers of all stored documents in lexical order.
func (s *DocumentService) List(ctx context.Context) ([]string, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return ids, nil
}

// Get retrieves a single document.
//
// Returns ErrDocumentNotFound (DM-DOC-4040) if the id is unknown.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if err := domain.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapStoreError(err)
	}
	return doc, nil
}

// Create creates an empty document with the given id.
//
// Returns ErrDocumentExists (DM-DOC-4090) if the id is already taken.
// Creation through this path and implicit creation through a realtime
// join are equivalent; neither takes precedence.
func (s *DocumentService) Create(ctx context.Context, id string) error {
	if err := domain.ValidateDocumentID(id); err != nil {
		return err
	}
	if err := s.store.Create(ctx, id); err != nil {
		return wrapStoreError(err)
	}

	s.metrics.DocumentsCreated.Inc()
	s.logger.Info("document created", "document_id", id)
	return nil
}

// Delete removes a document. Deleting an absent document is a no-op:
// the caller wanted it gone and it is gone.
//
// Live sessions on the document are not terminated. Their next snapshot
// recreates it, which is why the autosaver is invalidated here.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := domain.ValidateDocumentID(id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, id)
	if err != nil && !domain.IsDomainError(err, domain.ErrDocumentNotFound.Code) {
		return wrapStoreError(err)
	}

	s.invalidator.Invalidate(id)
	if err == nil {
		s.metrics.DocumentsDeleted.Inc()
		s.logger.Info("document deleted", "document_id", id)
	}
	return nil
}

func wrapStoreError(err error) error {
	if domain.IsDomainError(err, "") {
		return err
	}
	return domain.ErrStorageError.WithCause(err)
}

// Package storage provides durable document persistence for DocMesh.
package storage

import (
	"context"

	"github.com/yndnr/docmesh-go/internal/core/domain"
)

// DocumentStore defines the persistence contract for documents.
//
// Implementations must be safe for concurrent use. All durable writes
// must be visible to subsequent reads through the same store instance.
type DocumentStore interface {
	// Get reads the current content for id. It does not create.
	// Returns domain.ErrDocumentNotFound if the id is absent.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetOrCreate returns the existing document, or atomically creates
	// it with empty content. Concurrent calls for the same id perform
	// at most one creation.
	GetOrCreate(ctx context.Context, id string) (*domain.Document, error)

	// Create creates an empty document.
	// Returns domain.ErrDocumentExists if the id is taken.
	Create(ctx context.Context, id string) error

	// Put overwrites the stored content for id, creating the record if
	// absent (upsert). This is the autosave path; a document deleted
	// concurrently by the admin API is recreated with the saved content.
	Put(ctx context.Context, id, content string) error

	// Delete removes the document.
	// Returns domain.ErrDocumentNotFound if the id is absent.
	Delete(ctx context.Context, id string) error

	// List returns all document ids, sorted, without content.
	List(ctx context.Context) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}

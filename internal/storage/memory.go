// Package storage provides durable document persistence for DocMesh.
package storage

import (
	"context"
	"sort"

	"github.com/yndnr/docmesh-go/internal/core/domain"

	"github.com/yndnr/docmesh-go/pkg/cmap"
)

// MemoryStore implements DocumentStore without durability.
//
// It backs tests and dev mode. Documents are cloned on the way in and
// out so callers never share mutable state with the store.
type MemoryStore struct {
	docs *cmap.Map[*domain.Document]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: cmap.New[*domain.Document](),
	}
}

// Get reads the current content for id without creating it.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Document, error) {
	if err := domain.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	doc, ok := s.docs.Get(id)
	if !ok {
		return nil, domain.ErrDocumentNotFound.WithDetails("id=" + id)
	}
	return clone(doc), nil
}

// GetOrCreate returns the existing document, or atomically creates it
// with empty content. cmap.GetOrSet makes the check-and-insert atomic.
func (s *MemoryStore) GetOrCreate(_ context.Context, id string) (*domain.Document, error) {
	if err := domain.ValidateDocumentID(id); err != nil {
		return nil, err
	}

	doc, _ := s.docs.GetOrSet(id, domain.NewDocument(id))
	return clone(doc), nil
}

// Create creates an empty document, failing if the id is taken.
func (s *MemoryStore) Create(_ context.Context, id string) error {
	if err := domain.ValidateDocumentID(id); err != nil {
		return err
	}

	if _, existed := s.docs.GetOrSet(id, domain.NewDocument(id)); existed {
		return domain.ErrDocumentExists.WithDetails("id=" + id)
	}
	return nil
}

// Put overwrites the stored content for id, creating the record if absent.
func (s *MemoryStore) Put(_ context.Context, id, content string) error {
	if err := domain.ValidateDocumentID(id); err != nil {
		return err
	}
	if err := domain.ValidateContent(content); err != nil {
		return err
	}

	doc := &domain.Document{ID: id, Content: content}
	doc.Touch()
	s.docs.Set(id, doc)
	return nil
}

// Delete removes the document. Absent ids return ErrDocumentNotFound.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if err := domain.ValidateDocumentID(id); err != nil {
		return err
	}

	if removed := s.docs.DeleteIf(id, func(*domain.Document) bool { return true }); !removed {
		return domain.ErrDocumentNotFound.WithDetails("id=" + id)
	}
	return nil
}

// List returns all document ids, sorted.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	ids := s.docs.Keys()
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func clone(doc *domain.Document) *domain.Document {
	c := *doc
	return &c
}

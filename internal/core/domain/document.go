// Package domain defines the core domain models for DocMesh.
package domain

import (
	"strings"
	"time"
	"unicode"
)

// Document constraints.
const (
	// MaxDocumentIDLength bounds the client-supplied document
	// identifier, in bytes.
	MaxDocumentIDLength = 128

	// MaxContentLength bounds a stored document body (4 MiB).
	MaxContentLength = 4 << 20
)

// Document represents a shared text document.
//
// The identifier is client-supplied, not generated. Content is an
// arbitrary-length text blob mutated only by full overwrite; the store
// is the sole source of truth at rest and any in-memory copy held by a
// connection is a transient, possibly-stale cache.
type Document struct {
	// ID is the unique document identifier.
	ID string `json:"id"`

	// Content is the full document text. Empty for new documents.
	Content string `json:"content"`

	// UpdatedAt is the last persisted-write timestamp (Unix milliseconds).
	UpdatedAt int64 `json:"updated_at"`
}

// NewDocument creates an empty document with the given id.
func NewDocument(id string) *Document {
	return &Document{
		ID:        id,
		Content:   "",
		UpdatedAt: time.Now().UnixMilli(),
	}
}

// Touch updates the last-write timestamp.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now().UnixMilli()
}

// UpdatedAtTime returns UpdatedAt as time.Time.
func (d *Document) UpdatedAtTime() time.Time {
	return time.UnixMilli(d.UpdatedAt)
}

// ValidateDocumentID checks a client-supplied document identifier.
// Returns a DomainError with code DM-DOC-4001 if the id is unusable.
func ValidateDocumentID(id string) error {
	if id == "" {
		return ErrMissingArgument.WithDetails("document id is required")
	}
	if len(id) > MaxDocumentIDLength {
		return ErrDocumentValidation.WithDetails("document id exceeds 128 bytes")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return ErrDocumentValidation.WithDetails("document id contains control characters")
		}
	}
	if strings.TrimSpace(id) != id {
		return ErrDocumentValidation.WithDetails("document id has leading or trailing whitespace")
	}
	return nil
}

// ValidateContent checks a full-content snapshot before persistence.
func ValidateContent(content string) error {
	if len(content) > MaxContentLength {
		return ErrDocumentValidation.WithDetails("content exceeds 4MiB")
	}
	return nil
}

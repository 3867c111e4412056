// Package handler provides HTTP request handlers for DocMesh.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/docmesh-go/internal/core/domain"
)

// handleListDocuments handles GET /api/documents.
func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := h.docSvc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ListDocumentsResponse{
		IDs:   ids,
		Total: len(ids),
	})
}

// handleCreateDocument handles POST /api/documents.
func (h *Handler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body", nil)
		return
	}

	if err := h.docSvc.Create(r.Context(), req.ID); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, DocumentResponse{ID: req.ID})
}

// handleGetDocument handles GET /api/documents/{id}.
func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := h.docSvc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, DocumentResponse{
		ID:        doc.ID,
		Content:   doc.Content,
		UpdatedAt: doc.UpdatedAt,
	})
}

// handleDeleteDocument handles DELETE /api/documents/{id}.
// Deleting an absent document succeeds.
func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.docSvc.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{"id": id})
}

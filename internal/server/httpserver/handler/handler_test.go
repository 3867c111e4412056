package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yndnr/docmesh-go/internal/core/domain"
	"github.com/yndnr/docmesh-go/internal/core/service"
	"github.com/yndnr/docmesh-go/internal/storage"
)

type staticRooms int

func (s staticRooms) RoomCount() int { return int(s) }

func newTestHandler(t *testing.T) (*Handler, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := service.NewDocumentService(store, nil, nil, nil)
	return New(svc, staticRooms(3), nil), store
}

func doRequest(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) *Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return &resp
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Code != "OK" {
		t.Errorf("code = %q, want OK", resp.Code)
	}
}

func TestReady(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCreateDocument(t *testing.T) {
	h, store := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/api/documents", CreateDocumentRequest{ID: "doc1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	if _, err := store.Get(context.Background(), "doc1"); err != nil {
		t.Errorf("document not stored: %v", err)
	}
}

func TestCreateDocumentConflict(t *testing.T) {
	h, _ := newTestHandler(t)

	doRequest(t, h, http.MethodPost, "/api/documents", CreateDocumentRequest{ID: "doc1"})
	rec := doRequest(t, h, http.MethodPost, "/api/documents", CreateDocumentRequest{ID: "doc1"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Code != domain.ErrDocumentExists.Code {
		t.Errorf("code = %q, want %q", resp.Code, domain.ErrDocumentExists.Code)
	}
}

func TestCreateDocumentBadRequest(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing id", CreateDocumentRequest{}},
		{"whitespace id", CreateDocumentRequest{ID: " doc "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/documents", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateDocumentMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetDocument(t *testing.T) {
	h, store := newTestHandler(t)

	if err := store.Put(context.Background(), "doc1", "hello"); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, h, http.MethodGet, "/api/documents/doc1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatal(err)
	}
	var doc DocumentResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID != "doc1" || doc.Content != "hello" {
		t.Errorf("doc = %+v, want id doc1 content hello", doc)
	}
	if doc.UpdatedAt == 0 {
		t.Error("UpdatedAt should be set")
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/documents/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Code != domain.ErrDocumentNotFound.Code {
		t.Errorf("code = %q, want %q", resp.Code, domain.ErrDocumentNotFound.Code)
	}
}

func TestListDocuments(t *testing.T) {
	h, store := newTestHandler(t)

	for _, id := range []string{"beta", "alpha"} {
		if err := store.Put(context.Background(), id, ""); err != nil {
			t.Fatal(err)
		}
	}

	rec := doRequest(t, h, http.MethodGet, "/api/documents", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var list ListDocumentsResponse
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 2 || len(list.IDs) != 2 {
		t.Fatalf("list = %+v, want 2 ids", list)
	}
	if list.IDs[0] != "alpha" || list.IDs[1] != "beta" {
		t.Errorf("ids = %v, want lexical order", list.IDs)
	}
}

func TestDeleteDocument(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()

	if err := store.Put(ctx, "doc1", "body"); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, h, http.MethodDelete, "/api/documents/doc1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, err := store.Get(ctx, "doc1"); err == nil {
		t.Error("document still present after delete")
	}
}

func TestDeleteDocumentAbsentSucceeds(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodDelete, "/api/documents/ghost", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for idempotent delete", rec.Code)
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"DM-DOC-4040", http.StatusNotFound},
		{"DM-DOC-4090", http.StatusBadRequest},
		{"DM-DOC-4001", http.StatusBadRequest},
		{"DM-RT-4290", http.StatusTooManyRequests},
		{"DM-ARG-1001", http.StatusBadRequest},
		{"DM-SYS-5000", http.StatusInternalServerError},
		{"DM-SYS-5001", http.StatusInternalServerError},
		{"UNKNOWN", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := errorCodeToHTTPStatus(tt.code); got != tt.want {
			t.Errorf("errorCodeToHTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

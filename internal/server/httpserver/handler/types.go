// Package handler provides HTTP request handlers for DocMesh.
package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"` // Additional error details
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// CreateDocumentRequest is the request body for POST /api/documents.
type CreateDocumentRequest struct {
	ID string `json:"id"`
}

// DocumentResponse represents a document in API responses.
type DocumentResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	UpdatedAt int64  `json:"updated_at"`
}

// ListDocumentsResponse is the response body for GET /api/documents.
type ListDocumentsResponse struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

// StatusResponse is the payload for health and readiness checks.
type StatusResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Rooms  int    `json:"rooms,omitempty"`
}

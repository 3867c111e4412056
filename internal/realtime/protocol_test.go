package realtime

import (
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/docmesh-go/internal/core/domain"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantType string
		wantErr  bool
	}{
		{
			name:     "request document",
			data:     `{"type":"request-document","document_id":"doc1"}`,
			wantType: TypeRequestDocument,
		},
		{
			name:     "edit with opaque payload",
			data:     `{"type":"edit-operation","payload":{"anything":["goes",1]}}`,
			wantType: TypeEditOperation,
		},
		{
			name:     "save with absent content is valid",
			data:     `{"type":"save-snapshot"}`,
			wantType: TypeSaveSnapshot,
		},
		{
			name:    "missing type",
			data:    `{"document_id":"doc1"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `hello there`,
			wantErr: true,
		},
		{
			name:    "invalid utf8",
			data:    "{\"type\":\"\xff\xfe\"}",
			wantErr: true,
		},
		{
			name:    "oversized",
			data:    `{"type":"save-snapshot","content":"` + strings.Repeat("x", MaxMessageSize) + `"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Decode() accepted malformed message")
				}
				if domain.GetErrorCode(err) != domain.ErrProtocolViolation.Code {
					t.Errorf("error code = %s, want %s", domain.GetErrorCode(err), domain.ErrProtocolViolation.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if m.Type != tt.wantType {
				t.Errorf("type = %q, want %q", m.Type, tt.wantType)
			}
		})
	}
}

func TestDecodeEmptyContentIsValid(t *testing.T) {
	m, err := Decode([]byte(`{"type":"save-snapshot","document_id":"doc1","content":""}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if m.Content != "" {
		t.Errorf("content = %q, want empty", m.Content)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Message{
		Type:       TypeDocumentLoaded,
		DocumentID: "doc1",
		Content:    "hello world",
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out.Type != in.Type || out.DocumentID != in.DocumentID || out.Content != in.Content {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestErrorMessage(t *testing.T) {
	m := ErrorMessage(domain.ErrNotJoined)
	if m.Type != TypeError {
		t.Errorf("type = %q, want %q", m.Type, TypeError)
	}
	if m.Code != domain.ErrNotJoined.Code {
		t.Errorf("code = %q, want %q", m.Code, domain.ErrNotJoined.Code)
	}
	if m.Reason == "" {
		t.Error("reason should carry the error text")
	}
}

func TestErrorMessageNonDomainError(t *testing.T) {
	m := ErrorMessage(errors.New("socket gremlins"))
	if m.Code != domain.ErrInternalServer.Code {
		t.Errorf("code = %q, want %q for non-domain error", m.Code, domain.ErrInternalServer.Code)
	}
}

// Package realtime implements the collaborative editing core of DocMesh.
package realtime

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/yndnr/docmesh-go/internal/core/domain"
)

// Realtime message types. These travel both directions over the
// persistent connection; Direction is noted per type.
const (
	// TypeRequestDocument (client→server) asks to load a document and
	// join its room.
	TypeRequestDocument = "request-document"

	// TypeDocumentLoaded (server→client) is the one-time response to
	// request-document, sent only to the requesting connection.
	TypeDocumentLoaded = "document-loaded"

	// TypeEditOperation (client→server→peers) carries an opaque editor
	// delta, relayed verbatim to all other room members.
	TypeEditOperation = "edit-operation"

	// TypeSaveSnapshot (client→server) carries the full current content
	// for persistence.
	TypeSaveSnapshot = "save-snapshot"

	// TypeError (server→client) reports a rejected message.
	TypeError = "error"
)

// MaxMessageSize bounds an inbound wire message. Slightly above the
// content limit to leave room for the envelope.
const MaxMessageSize = domain.MaxContentLength + 4096

// Message is the wire envelope for the realtime protocol.
//
// Payload is opaque: the core relays it without interpreting it. An
// absent content field decodes as the empty string, which is a valid
// document body.
type Message struct {
	Type       string          `json:"type"`
	DocumentID string          `json:"document_id,omitempty"`
	Content    string          `json:"content,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`

	// Error fields, set only on TypeError.
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Encode serializes a message for the wire.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("realtime: encode %s: %w", m.Type, err)
	}
	return data, nil
}

// Decode parses an inbound wire message and checks its structural shape.
// Deep validation of payloads is out of scope; the core only rejects
// messages it cannot dispatch.
func Decode(data []byte) (Message, error) {
	if len(data) > MaxMessageSize {
		return Message{}, domain.ErrProtocolViolation.WithDetails("message exceeds size limit")
	}
	if !utf8.Valid(data) {
		return Message{}, domain.ErrProtocolViolation.WithDetails("message is not valid UTF-8")
	}

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, domain.ErrProtocolViolation.WithCause(err)
	}
	if m.Type == "" {
		return Message{}, domain.ErrProtocolViolation.WithDetails("missing type")
	}
	return m, nil
}

// ErrorMessage builds a TypeError message from a domain error.
func ErrorMessage(err error) Message {
	code := domain.GetErrorCode(err)
	if code == "" {
		code = domain.ErrInternalServer.Code
	}
	return Message{
		Type:   TypeError,
		Code:   code,
		Reason: err.Error(),
	}
}

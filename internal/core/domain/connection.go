// Package domain defines the core domain models for DocMesh.
package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ConnectionIDPrefix is the prefix for realtime connection handles.
const ConnectionIDPrefix = "dmcn-"

// GenerateConnectionID generates a transport-assigned connection handle.
// Format: dmcn-{ulid_lowercase}, 31 characters total.
func GenerateConnectionID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return ConnectionIDPrefix + strings.ToLower(id.String()), nil
}

// IsValidConnectionID checks if a string is a valid connection handle.
func IsValidConnectionID(id string) bool {
	if !strings.HasPrefix(id, ConnectionIDPrefix) {
		return false
	}
	// dmcn- (5) + ULID (26) = 31 characters
	if len(id) != 31 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(ConnectionIDPrefix):]))
	return err == nil
}

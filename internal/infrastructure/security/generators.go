// Package security provides identifier and key generation utilities
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateULID mints a sortable identifier for server-side rows: leads,
// posts, and raw interaction events.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateSecureKey returns length hex characters of cryptographically
// secure randomness. Startup uses it to mint an ephemeral JWT secret
// when none is configured.
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

package registration

import (
	"crypto/rand"
	"encoding/base64"
)

// 9 random bytes base64url-encode to exactly 12 characters.
const idRandomBytes = 9

// IDLength is the length of every registration identifier.
const IDLength = 12

// NewID generates an opaque, URL-safe registration identifier. Identifiers
// are never derived from user-supplied data and are immutable once assigned.
func NewID() (string, error) {
	buf := make([]byte, idRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", NewFailedToGenerateIDError("Failed to read random bytes for registration ID", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

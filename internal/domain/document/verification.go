package document

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
)

// verificationIDBytes is the entropy of a verification id. 24 random bytes
// encode to 32 url-safe characters, which is far beyond enumerability.
const verificationIDBytes = 24

// VerificationIDLength is the length of an encoded verification id
const VerificationIDLength = 32

var verificationIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{32}$`)

// NewVerificationID generates a fresh opaque verification token. It is
// distinct from the internal document ID and is the only key the public
// verification endpoint accepts.
func NewVerificationID() (string, error) {
	buf := make([]byte, verificationIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// IsValidVerificationID reports whether the token matches the expected shape.
// Malformed tokens are rejected before any lookup is attempted.
func IsValidVerificationID(token string) bool {
	return verificationIDPattern.MatchString(token)
}

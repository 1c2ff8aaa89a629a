package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultTokenBytes is the entropy used for reset and CSRF tokens.
const DefaultTokenBytes = 32

// GenerateSecureToken returns lengthBytes of cryptographically secure
// randomness as a hex string. An entropy source failure is returned as
// an error; callers must not proceed without a token.
func GenerateSecureToken(lengthBytes int) (string, error) {
	if lengthBytes <= 0 {
		lengthBytes = DefaultTokenBytes
	}
	buf := make([]byte, lengthBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read entropy source: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

package idgen

import (
	"crypto/rand"
	"fmt"
)

const charset = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID generates a cryptographically secure ID with the given prefix and length.
// Uses only lowercase alphanumeric characters.
func GenerateSecureID(prefix string, length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := make([]byte, length)
	for i := 0; i < length; i++ {
		encoded[i] = charset[bytes[i]%byte(len(charset))]
	}

	return fmt.Sprintf("%s_%s", prefix, string(encoded)), nil
}

// ConversationID returns a new conversation identifier.
func ConversationID() (string, error) {
	return GenerateSecureID("conv", 24)
}

// MessageID returns a new message identifier.
func MessageID() (string, error) {
	return GenerateSecureID("msg", 24)
}

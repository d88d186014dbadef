package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a new random identifier suitable for sessions,
// players and bombs.
func NewID() string {
	return uuid.NewString()
}

// GenerateToken returns an opaque hex token of the given length.
func GenerateToken(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}
	b := make([]byte, (length+1)/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %v", err)
	}
	return hex.EncodeToString(b)[:length], nil
}

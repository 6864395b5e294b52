package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// resetTokenBytes is the entropy of a reset token: 32 random bytes rendered
// as 64 hex characters.
const resetTokenBytes = 32

// NewResetToken returns a fresh high-entropy reset token.
// The only failure mode is the entropy source itself.
func NewResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

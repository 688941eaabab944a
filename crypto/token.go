package crypto

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	// SessionIDBytes is the entropy of a session identifier. At 512
	// random bytes, key collisions in the session store are negligible.
	SessionIDBytes = 512
	// SaltBytes is the entropy of a password salt.
	SaltBytes = 16
)

func randomHex(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// NewSessionID generates a high-entropy opaque session identifier,
// distinct from any user identifier.
func NewSessionID() (string, error) {
	return randomHex(SessionIDBytes)
}

// NewSalt generates a fresh cryptographically random password salt.
func NewSalt() (string, error) {
	return randomHex(SaltBytes)
}

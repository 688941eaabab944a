package crypto

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// PasswordHandler derives and verifies salted password hashes.
type PasswordHandler interface {
	Hash(password, salt string) (string, error)
	Verify(password, salt, storedHash string) (bool, error)
}

// Ensure PBKDF2 implements PasswordHandler
var _ PasswordHandler = (*PBKDF2)(nil)

// PBKDF2 is a PBKDF2-SHA512 password handler. Output is the lowercase
// hex encoding of the derived key. Passwords are NFC-normalized before
// derivation so visually identical inputs hash identically.
type PBKDF2 struct {
	Iterations int // Number of iterations (time cost)
	KeyLength  int // Length of derived key in bytes
}

// NewPBKDF2 returns a handler with 1000 iterations and a 64-byte key.
func NewPBKDF2() *PBKDF2 {
	return &PBKDF2{
		Iterations: 1000,
		KeyLength:  64,
	}
}

// Hash derives the hex-encoded key for password under salt. The result
// is deterministic for a given (password, salt) pair.
func (p *PBKDF2) Hash(password, salt string) (string, error) {
	key := pbkdf2.Key(
		[]byte(norm.NFC.String(password)),
		[]byte(salt),
		p.Iterations,
		p.KeyLength,
		sha512.New,
	)
	return hex.EncodeToString(key), nil
}

// Verify recomputes the hash and compares it against storedHash in
// constant time. A mismatch is a normal false result, not an error.
// Unequal lengths short-circuit to false without a timing leak since
// the recomputation already happened.
func (p *PBKDF2) Verify(password, salt, storedHash string) (bool, error) {
	computed, err := p.Hash(password, salt)
	if err != nil {
		return false, err
	}

	computedBytes, err := hex.DecodeString(computed)
	if err != nil {
		return false, fmt.Errorf("invalid computed hash encoding: %w", err)
	}
	storedBytes, err := hex.DecodeString(storedHash)
	if err != nil {
		// stored material is not hex; never a match
		return false, nil
	}

	if len(computedBytes) != len(storedBytes) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(computedBytes, storedBytes) == 1, nil
}

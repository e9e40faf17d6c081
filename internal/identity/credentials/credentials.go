// Package credentials derives and verifies password hashes. Hashing is an
// explicit two-step API called by the registration flow before the record is
// built; saving a user has no hidden hashing side effects, so updating a user
// for unrelated reasons can never double-hash an already-derived value.
package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// ErrMismatch means the plaintext does not correspond to the stored pair.
// Any other error from Verify is an internal derivation failure; callers
// treat it as a non-match but should log it distinctly.
var ErrMismatch = errors.New("credentials do not match")

const (
	saltLen = 16
	keyLen  = 32
	r       = 8
	p       = 1
)

// Hasher derives salted scrypt hashes. N is tunable so tests can use cheap
// parameters.
type Hasher struct {
	N int
}

// NewHasher returns a Hasher with the given scrypt cost (must be a power of
// two greater than one).
func NewHasher(n int) *Hasher {
	return &Hasher{N: n}
}

// Hash generates a fresh random salt and derives the hash for plaintext.
// Both return values are base64-encoded for storage.
func (h *Hasher) Hash(plaintext string) (hash, salt string, err error) {
	rawSalt := make([]byte, saltLen)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	derived, err := scrypt.Key([]byte(plaintext), rawSalt, h.N, r, p, keyLen)
	if err != nil {
		return "", "", fmt.Errorf("derive hash: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(derived),
		base64.RawStdEncoding.EncodeToString(rawSalt), nil
}

// Verify re-derives the hash from plaintext and the stored salt and compares
// in constant time. Returns ErrMismatch on a plain non-match; any other error
// means the stored pair could not be processed.
func (h *Hasher) Verify(plaintext, hash, salt string) error {
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return fmt.Errorf("decode salt: %w", err)
	}
	rawHash, err := base64.RawStdEncoding.DecodeString(hash)
	if err != nil {
		return fmt.Errorf("decode hash: %w", err)
	}
	derived, err := scrypt.Key([]byte(plaintext), rawSalt, h.N, r, p, keyLen)
	if err != nil {
		return fmt.Errorf("derive hash: %w", err)
	}
	if subtle.ConstantTimeCompare(derived, rawHash) != 1 {
		return ErrMismatch
	}
	return nil
}

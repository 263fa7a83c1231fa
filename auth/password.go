package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	// scrypt is a memory-hard key derivation function: every guess costs both CPU
	// and RAM, which is what makes GPU/ASIC brute forcing expensive.
	"golang.org/x/crypto/scrypt"
)

// secretSeparator joins the derived key and the salt in a stored secret.
const secretSeparator = "."

const (
	saltBytes = 16 // 128-bit salt
	keyBytes  = 64 // derived key length
)

// ErrMalformedSecret is returned by Verify when a stored secret cannot be decoded.
// It signals corrupted data, not a wrong password.
var ErrMalformedSecret = errors.New("malformed password secret")

// ScryptParams are the scrypt cost parameters.
type ScryptParams struct {
	N int // CPU/memory cost, power of two
	R int // block size
	P int // parallelism
}

// DefaultScryptParams matches the parameters existing secrets were derived with
// (N=2^14, r=8, p=1). Changing them invalidates every stored password.
var DefaultScryptParams = ScryptParams{N: 16384, R: 8, P: 1}

// PasswordHasher derives and verifies password secrets.
type PasswordHasher interface {
	// Hash returns `derivedKeyHex + "." + saltHex` for a fresh random salt.
	Hash(plaintext string) (string, error)
	// Verify returns (true, nil) on match, (false, nil) on mismatch, and a
	// wrapped ErrMalformedSecret when secret cannot be decoded.
	Verify(plaintext, secret string) (bool, error)
}

// ScryptHasher implements PasswordHasher with scrypt.
type ScryptHasher struct {
	params ScryptParams
}

// NewScryptHasher creates a hasher using DefaultScryptParams.
func NewScryptHasher() *ScryptHasher {
	return &ScryptHasher{params: DefaultScryptParams}
}

// NewScryptHasherWithParams creates a hasher with custom cost parameters.
// Tests use this to keep derivation cheap.
func NewScryptHasherWithParams(p ScryptParams) *ScryptHasher {
	return &ScryptHasher{params: p}
}

// Hash derives a new secret for plaintext.
func (h *ScryptHasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	key, err := h.derive(plaintext, saltHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + secretSeparator + saltHex, nil
}

// Verify re-derives the key for plaintext with the stored salt and compares it
// with the stored key in constant time.
func (h *ScryptHasher) Verify(plaintext, secret string) (bool, error) {
	keyHex, saltHex, ok := strings.Cut(secret, secretSeparator)
	if !ok || strings.Contains(saltHex, secretSeparator) {
		return false, fmt.Errorf("%w: expected <key>.<salt>", ErrMalformedSecret)
	}

	stored, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrMalformedSecret, err)
	}
	if len(stored) != keyBytes {
		return false, fmt.Errorf("%w: key is %d bytes, want %d", ErrMalformedSecret, len(stored), keyBytes)
	}
	if _, err := hex.DecodeString(saltHex); err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedSecret, err)
	}

	supplied, err := h.derive(plaintext, saltHex)
	if err != nil {
		return false, err
	}

	// ConstantTimeCompare inspects every byte; its running time does not depend
	// on where the first difference is.
	return subtle.ConstantTimeCompare(stored, supplied) == 1, nil
}

// derive runs scrypt with the hex salt string itself as the salt input.
func (h *ScryptHasher) derive(plaintext, saltHex string) ([]byte, error) {
	key, err := scrypt.Key([]byte(plaintext), []byte(saltHex), h.params.N, h.params.R, h.params.P, keyBytes)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects inputs longer than 72 bytes. Passwords above the ceiling
// are substituted with the hex SHA-256 digest of their bytes (64 ASCII
// characters), preserving full entropy instead of silently truncating.
const maxPasswordBytes = 72

var (
	errInvalidCost = errors.New("bcrypt: cost out of range")

	activeCost = bcrypt.DefaultCost
	costMu     sync.RWMutex
)

// ConfigureBcryptCost sets the active bcrypt cost after validation.
func ConfigureBcryptCost(cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("%w: %d", errInvalidCost, cost)
	}

	costMu.Lock()
	activeCost = cost
	costMu.Unlock()
	return nil
}

// CurrentBcryptCost returns the currently active bcrypt cost.
func CurrentBcryptCost() int {
	costMu.RLock()
	defer costMu.RUnlock()
	return activeCost
}

// HashPassword generates a salted bcrypt hash for the provided password.
// Inputs over 72 bytes are normalised first; a permissive truncation retry
// exists so no input length can make hashing fail outright.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(normalizePassword(password)), CurrentBcryptCost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			hash, err = bcrypt.GenerateFromPassword(truncatePasswordBytes([]byte(password)), CurrentBcryptCost())
			if err == nil {
				return string(hash), nil
			}
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword compares the provided password against a stored bcrypt
// hash, applying the same over-72-byte normalisation used when hashing.
// bcrypt performs the comparison in constant time. Malformed hashes and
// other verification errors yield false rather than an error.
func VerifyPassword(password, encoded string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(normalizePassword(password)))
	if err == nil {
		return true
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false
	}

	// Length or format edge case: retry with the truncated byte form.
	return bcrypt.CompareHashAndPassword([]byte(encoded), truncatePasswordBytes([]byte(password))) == nil
}

func normalizePassword(password string) string {
	if len(password) > maxPasswordBytes {
		sum := sha256.Sum256([]byte(password))
		return hex.EncodeToString(sum[:])
	}
	return password
}

// truncatePasswordBytes cuts the password to 72 bytes, dropping any invalid
// trailing UTF-8 fragment left by the cut.
func truncatePasswordBytes(b []byte) []byte {
	if len(b) <= maxPasswordBytes {
		return b
	}

	b = b[:maxPasswordBytes]
	for len(b) > 0 && !utf8.Valid(b) {
		b = b[:len(b)-1]
	}
	return b
}

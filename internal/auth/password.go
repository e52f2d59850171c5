// Package auth provides password hashing and JWT token handling for the
// timetable API. It knows nothing about HTTP or storage; the service layer
// calls it with plain values.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. N=16384, r=8, p=1 with a 64-byte key matches the
// cost the user records were created with; changing them invalidates
// every stored hash.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16
)

// HashPassword derives a scrypt hash for the given password under a fresh
// random salt. Both hash and salt are returned hex-encoded for storage.
func HashPassword(password string) (hash, salt string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("auth.HashPassword: salt: %w", err)
	}
	salt = hex.EncodeToString(raw)

	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", "", fmt.Errorf("auth.HashPassword: %w", err)
	}
	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword reports whether password matches the stored hash/salt pair.
// The comparison is constant-time.
func VerifyPassword(password, salt, expectedHash string) bool {
	expected, err := hex.DecodeString(expectedHash)
	if err != nil {
		return false
	}
	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, expected) == 1
}

package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters
const (
	SaltLength = 32      // random bytes, hex-encoded before storage
	Iterations = 100_000 // PBKDF2-HMAC-SHA256 rounds
	KeyLength  = 32
)

// HashPassword derives a PBKDF2-SHA256 hash of password with a freshly
// generated random salt. Both hash and salt are hex-encoded.
func HashPassword(password string) (hash, salt string, err error) {
	raw := make([]byte, SaltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}

	salt = hex.EncodeToString(raw)
	return HashPasswordWithSalt(password, salt), salt, nil
}

// HashPasswordWithSalt is deterministic: the same password and salt always
// produce the same hash. The salt keys the derivation as its UTF-8 bytes.
func HashPasswordWithSalt(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), Iterations, KeyLength, sha256.New)
	return hex.EncodeToString(key)
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(password, hash, salt string) bool {
	computed := HashPasswordWithSalt(password, salt)

	// Constant-time comparison (prevent timing attacks)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

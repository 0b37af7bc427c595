// Package auth provides credential hashing for vcrts accounts.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// HashCredential returns a SHA-256 hash of the secret.
func HashCredential(secret string) string {
	secret = strings.TrimSpace(secret)

	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}

// Verify reports whether the secret matches the stored hash.
func Verify(storedHash, secret string) bool {
	computed := HashCredential(secret)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(computed)) == 1
}

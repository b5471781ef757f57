package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashAPIKey returns the hex SHA-256 digest used to store and look up API keys.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

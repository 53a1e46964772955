package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyDigest is a stable identifier for a storage key, used where a backend
// cannot take the key verbatim.
func KeyDigest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:8])
}

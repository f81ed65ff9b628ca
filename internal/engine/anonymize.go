package engine

import (
	"crypto/sha256"
	"encoding/hex"
)

// Anonymize derives the storage-safe pseudonym for a real identity handle.
// The mapping is deterministic and one-way: all persisted moderation data is
// keyed by this digest, never by the handle itself.
func Anonymize(handle string) string {
	sum := sha256.Sum256([]byte(handle))
	return hex.EncodeToString(sum[:])
}

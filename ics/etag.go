package ics

import (
	"crypto/sha256"
	"encoding/hex"
)

// ETag derives an entity tag from serialized calendar data. It hashes
// content rather than timestamps so that clock skew between client and
// server cannot produce false conflicts.
func ETag(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

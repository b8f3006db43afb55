// Package hash provides content fingerprinting for optimistic concurrency
// control. Every whole-file and per-range version token in the system is a
// lowercase hex SHA-256 digest produced here.
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// EmptyContentHash is Sum(""), the well-known digest that stands in for
// "no prior content" in insertion-mode checks.
const EmptyContentHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Sum returns the lowercase hex SHA-256 digest of the UTF-8 bytes of content.
// It is total and deterministic; Sum("") == EmptyContentHash.
func Sum(content string) string {
	digest := sha256.Sum256([]byte(content))
	return hex.EncodeToString(digest[:])
}

// Equal compares two digests in constant time. Either argument may be empty;
// two empty strings compare equal.
func Equal(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

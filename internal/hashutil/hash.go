// Package hashutil provides the content-addressed fingerprint used to
// compare "same bytes?" across the incremental writer and its tests. The
// only contract (spec.md §4.2) is hash(a) == hash(b) iff bytes(a) ==
// bytes(b), with negligible collision probability; no cross-implementation
// stability is promised.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex-encoded SHA-256 digest of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Equal reports whether a and b hash to the same digest. It is equivalent
// to, but reads clearer than, Digest(a) == Digest(b) at call sites that
// already have both byte slices in hand.
func Equal(a, b []byte) bool {
	return Digest(a) == Digest(b)
}

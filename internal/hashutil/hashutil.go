// Package hashutil provides the two hash families spec.md §4.C requires:
// a cryptographic content hash (SHA-256, used for cache keys) and a
// non-cryptographic one (DJB2). It also wraps xxhash. Only SHA256Hex is
// called by other packages; the variable graph keeps no content hash and the
// extractor dedups locations with plain maps — grounded on the teacher's
// generateContentKey (internal/cache/metrics_cache.go) for the SHA-256
// hex-key style and internal/core/file_content_store.go for xxhash-keyed
// interning.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// SHA256Hex returns the lowercase hex SHA-256 digest of content.
func SHA256Hex(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// DJB2Hex computes the 32-bit DJB2 variant mandated by spec.md §4.C:
// h starts at 0; for each byte c, h = ((h<<5) - h) + c, i.e. h = 31*h + c,
// with int32 wraparound. The result is hex-encoded via Go's signed %x
// formatting, so a negative accumulator yields a string beginning with '-'.
// This exact shape is load-bearing: changing it invalidates every cache that
// keys on it.
func DJB2Hex(s string) string {
	var h int32
	for i := 0; i < len(s); i++ {
		h = 31*h + int32(s[i])
	}
	return fmt.Sprintf("%x", h)
}

// DJB2BytesHex is DJB2Hex over a byte slice, for content that is not
// naturally a string (e.g. already-read file bytes).
func DJB2BytesHex(b []byte) string {
	var h int32
	for _, c := range b {
		h = 31*h + int32(c)
	}
	return fmt.Sprintf("%x", h)
}

// XXHash64 returns the 64-bit xxHash of b. No other package calls it.
func XXHash64(b []byte) uint64 {
	return xxhash.Sum64(b)
}

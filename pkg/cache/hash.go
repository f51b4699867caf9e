package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/edgebundle/pkg/bundle"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Digest fingerprints an edge list. Every coordinate and weight is fed to
// SHA-256 as its IEEE-754 bit pattern, in input order, so edge sets that
// differ in any bit (including -0 and NaN payloads) get different digests.
func Digest(edges []bundle.Edge) string {
	h := sha256.New()
	var buf [8 * 5]byte
	for _, e := range edges {
		for i, v := range [5]float64{e.X, e.Y, e.XEnd, e.YEnd, e.Weight} {
			binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
		}
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

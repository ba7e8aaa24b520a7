// Package hash derives stable, domain-separated digests of big integers,
// used to fingerprint public keys.
package hash

import (
	"encoding/binary"
	"math/big"

	"github.com/zeebo/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// Hash wraps a BLAKE3 hasher. Writes are length-prefixed so that
// neighbouring integers cannot collide by shifting bytes between them.
type Hash struct {
	h *blake3.Hasher
}

// New returns a Hash whose state is seeded with the given domain string.
func New(domain string) *Hash {
	h := blake3.New()
	_, _ = h.Write([]byte(domain))
	return &Hash{h: h}
}

// WriteInt absorbs the given integers, each prefixed with its sign and the
// length of its magnitude.
func (h *Hash) WriteInt(xs ...*big.Int) {
	var prefix [5]byte
	for _, x := range xs {
		b := x.Bytes()
		if x.Sign() < 0 {
			prefix[0] = 1
		} else {
			prefix[0] = 0
		}
		binary.BigEndian.PutUint32(prefix[1:], uint32(len(b)))
		_, _ = h.h.Write(prefix[:])
		_, _ = h.h.Write(b)
	}
}

// Sum returns the digest of everything written so far.
func (h *Hash) Sum() []byte {
	out := make([]byte, 0, Size)
	return h.h.Sum(out)
}

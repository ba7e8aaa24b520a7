// Package sample draws uniformly distributed integers from a cryptographic
// random source.
//
// Every function takes the source as an explicit io.Reader, so production
// code passes crypto/rand.Reader and tests can substitute their own.
package sample

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
)

// maxIterations bounds rejection loops whose acceptance probability is
// overwhelming, so that a broken random source cannot hang the caller.
const maxIterations = 255

var (
	// ErrLength is returned when a byte or bit count is smaller than 1.
	ErrLength = errors.New("sample: length must be at least 1")

	// ErrRange is returned by Between when the interval [min, max] is empty.
	ErrRange = errors.New("sample: max must be strictly greater than min")

	// ErrMaxIterations is the panic value of rejection loops that failed to
	// accept after maxIterations draws.
	ErrMaxIterations = fmt.Errorf("sample: failed to sample after %d iterations", maxIterations)
)

var one = big.NewInt(1)

// Bytes reads k random bytes from rand.
func Bytes(rand io.Reader, k int) ([]byte, error) {
	if k < 1 {
		return nil, ErrLength
	}
	buf := make([]byte, k)
	if _, err := io.ReadFull(rand, buf); err != nil {
		return nil, fmt.Errorf("sample: reading %d bytes: %w", k, err)
	}
	return buf, nil
}

// Bits returns a nonnegative integer with exactly bits random bits: ⌈bits/8⌉
// random bytes with the excess high bits of the first byte cleared. When
// forceTop is set, the most significant of the bits is forced to 1, so the
// result has bit length exactly bits.
func Bits(rand io.Reader, bits int, forceTop bool) (*big.Int, error) {
	if bits < 1 {
		return nil, ErrLength
	}
	buf, err := Bytes(rand, (bits+7)/8)
	if err != nil {
		return nil, err
	}
	excess := uint(8*len(buf) - bits)
	buf[0] &= 0xFF >> excess
	if forceTop {
		buf[0] |= 1 << (7 - excess)
	}
	return new(big.Int).SetBytes(buf), nil
}

// Between returns a uniform integer in the closed interval [min, max]. It
// draws values of bitLen(max-min) bits and rejects those above the width,
// which keeps the accepted distribution exactly uniform.
func Between(rand io.Reader, min, max *big.Int) (*big.Int, error) {
	if max.Cmp(min) <= 0 {
		return nil, ErrRange
	}
	width := new(big.Int).Sub(max, min)
	for {
		r, err := Bits(rand, width.BitLen(), false)
		if err != nil {
			return nil, err
		}
		if r.Cmp(width) <= 0 {
			return r.Add(r, min), nil
		}
	}
}

// UnitModN returns a uniform element of ℤₙˣ, that is, an integer in [1, n)
// coprime to n. It panics with ErrMaxIterations if no unit is found after
// maxIterations draws, which for any real modulus means the random source
// is broken.
func UnitModN(rand io.Reader, n *big.Int) *big.Int {
	m := saferith.ModulusFromNat(new(saferith.Nat).SetBig(n, n.BitLen()))
	nMinusOne := new(big.Int).Sub(n, one)
	u := new(saferith.Nat)
	for i := 0; i < maxIterations; i++ {
		r, err := Between(rand, one, nMinusOne)
		if err != nil {
			panic(err)
		}
		u.SetBig(r, r.BitLen())
		if u.IsUnit(m) == 1 {
			return r
		}
	}
	panic(ErrMaxIterations)
}

// Package prime tests integers for probable primality and generates random
// probable primes of an exact bit length.
//
// Testing is a trial division prefilter over the first 250 odd primes
// followed by Miller-Rabin as specified in FIPS 186-4, appendix C.3.1.
package prime

import (
	"errors"
	"io"
	"math"
	"math/big"
	"sync"

	"github.com/taurusgroup/paillier/internal/params"
	"github.com/taurusgroup/paillier/pkg/math/arith"
	"github.com/taurusgroup/paillier/pkg/math/sample"
	"github.com/taurusgroup/paillier/pkg/pool"
)

// ErrBits is returned by Prime when the requested bit length is below 2.
// There is no 1-bit prime, so smaller requests could never terminate.
var ErrBits = errors.New("prime: bit length must be at least 2")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// primes returns all odd primes below the bound, by sieve of Eratosthenes.
func primes(below uint32) []uint32 {
	sieve := make([]bool, below)
	for i := 2; i < len(sieve); i++ {
		sieve[i] = true
	}
	for p := 2; p*p < len(sieve); p++ {
		if !sieve[p] {
			continue
		}
		for i := p << 1; i < len(sieve); i += p {
			sieve[i] = false
		}
	}
	nF := float64(below)
	out := make([]uint32, 0, int(nF/math.Log(nF)))
	for p := uint32(3); p < below; p++ {
		if sieve[p] {
			out = append(out, p)
		}
	}
	return out
}

// The trial division table is only built the first time it is needed.
var (
	trialPrimes []uint32
	initPrimes  sync.Once
)

// IsProbablyPrime reports whether w is prime, with a false positive
// probability of at most 4^-iterations for composite w. It draws
// Miller-Rabin bases from rand and panics if the source fails.
func IsProbablyPrime(rand io.Reader, w *big.Int, iterations int) bool {
	if w.Cmp(two) == 0 {
		return true
	}
	if w.Cmp(one) <= 0 || w.Bit(0) == 0 {
		return false
	}

	initPrimes.Do(func() {
		trialPrimes = primes(params.TrialDivisionBound)
	})
	d := new(big.Int)
	rem := new(big.Int)
	for _, p := range trialPrimes {
		d.SetUint64(uint64(p))
		if rem.Mod(w, d).Sign() == 0 {
			return w.Cmp(d) == 0
		}
	}

	return millerRabin(rand, w, iterations)
}

// millerRabin runs the FIPS 186-4 C.3.1 test on an odd w > 1597 that
// survived trial division.
func millerRabin(rand io.Reader, w *big.Int, iterations int) bool {
	wMinusOne := new(big.Int).Sub(w, one)
	wMinusTwo := new(big.Int).Sub(w, two)

	// w - 1 = 2^a · m with m odd
	a := 0
	for wMinusOne.Bit(a) == 0 {
		a++
	}
	m := new(big.Int).Rsh(wMinusOne, uint(a))

rounds:
	for i := 0; i < iterations; i++ {
		b, err := sample.Between(rand, two, wMinusTwo)
		if err != nil {
			panic(err)
		}
		z, err := arith.ModPow(b, m, w)
		if err != nil {
			panic(err)
		}
		if z.Cmp(one) == 0 || z.Cmp(wMinusOne) == 0 {
			continue
		}
		for j := 0; j < a-1; j++ {
			z.Mul(z, z)
			z.Mod(z, w)
			if z.Cmp(wMinusOne) == 0 {
				continue rounds
			}
			if z.Cmp(one) == 0 {
				// Reached 1 without passing through w-1, so b is a
				// witness of compositeness.
				return false
			}
		}
		return false
	}
	return true
}

// Prime returns a probable prime of exactly bits bits, certified by
// IsProbablyPrime at the given iteration count. Candidates have their top
// and bottom bits forced so every draw is an odd integer of full length.
//
// When pl is non-nil the candidate draws fan out across its workers and the
// first success wins; a nil pool searches on the calling goroutine.
func Prime(rand io.Reader, bits, iterations int, pl *pool.Pool) (*big.Int, error) {
	if bits < 2 {
		return nil, ErrBits
	}
	reader := pool.NewLockedReader(rand)
	results := pl.Search(1, func() interface{} {
		candidate, err := sample.Bits(reader, bits, true)
		if err != nil {
			return nil
		}
		candidate.SetBit(candidate, 0, 1)
		if !IsProbablyPrime(reader, candidate, iterations) {
			return nil
		}
		return candidate
	})
	return results[0].(*big.Int), nil
}

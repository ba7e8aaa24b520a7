// Package paillier implements the Paillier cryptosystem: an additively
// homomorphic public-key encryption scheme over ℤ/n²ℤ for an RSA-style
// modulus n.
//
// Two key setups are supported. The general variant samples a generator
// g from the subgroup of elements whose order is a multiple of n, with
// λ = lcm(p-1, q-1). The simple variant fixes g = n+1 with λ = (p-1)(q-1),
// which additionally allows recovering the nonce of a ciphertext.
package paillier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/taurusgroup/paillier/internal/params"
	"github.com/taurusgroup/paillier/pkg/math/arith"
	"github.com/taurusgroup/paillier/pkg/math/prime"
	"github.com/taurusgroup/paillier/pkg/math/sample"
	"github.com/taurusgroup/paillier/pkg/pool"
)

var (
	// ErrBitLength is returned when a requested modulus size is below
	// params.MinKeyBits.
	ErrBitLength = errors.New("paillier: modulus bit length too small")

	// ErrOperands is returned by Add when fewer than two ciphertexts are
	// given.
	ErrOperands = errors.New("paillier: addition requires at least two ciphertexts")

	// ErrNotSimpleVariant is returned by RandomFactor for keys whose
	// generator is not n+1.
	ErrNotSimpleVariant = errors.New("paillier: operation requires the simple variant g = n+1")

	// ErrMissingFactors is returned by RandomFactor when the secret key
	// was reconstructed without its prime factors.
	ErrMissingFactors = errors.New("paillier: secret key does not carry the prime factors")

	// ErrKeyGen is returned when repeated sampling failed to produce a
	// usable generator. With an honest random source this does not happen.
	ErrKeyGen = errors.New("paillier: failed to generate a usable key")
)

// maxGeneratorAttempts bounds generator sampling so that a degenerate
// random source cannot hang key generation.
const maxGeneratorAttempts = 255

var one = big.NewInt(1)

// KeyPair couples a public key with its secret counterpart.
// Secret.PublicKey is identically Public.
type KeyPair struct {
	Public *PublicKey
	Secret *SecretKey
}

// KeyGenResult is delivered by the channel returned from KeyGenAsync.
type KeyGenResult struct {
	Pair *KeyPair
	Err  error
}

// KeyGen generates a random keypair with a modulus of exactly bits bits,
// blocking until it is found. Use params.DefaultBits when in doubt about
// the size. The factor searches run concurrently, and when pl is non-nil
// each one additionally fans its candidate draws across the pool's
// workers.
func KeyGen(rand io.Reader, bits int, simple bool, pl *pool.Pool) (*KeyPair, error) {
	return keyGen(context.Background(), rand, bits, simple, pl)
}

// KeyGenAsync is KeyGen running on its own goroutine. The returned channel
// delivers a single result and is then closed. Cancelling ctx abandons the
// search before the next pair of factors is drawn; factor searches already
// under way run to completion first.
func KeyGenAsync(ctx context.Context, rand io.Reader, bits int, simple bool, pl *pool.Pool) <-chan KeyGenResult {
	out := make(chan KeyGenResult, 1)
	go func() {
		defer close(out)
		pair, err := keyGen(ctx, rand, bits, simple, pl)
		out <- KeyGenResult{Pair: pair, Err: err}
	}()
	return out
}

func keyGen(ctx context.Context, rand io.Reader, bits int, simple bool, pl *pool.Pool) (*KeyPair, error) {
	if bits < params.MinKeyBits {
		return nil, fmt.Errorf("paillier: %d bit modulus: %w", bits, ErrBitLength)
	}
	reader := pool.NewLockedReader(rand)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, q, err := drawFactors(reader, bits, pl)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).Mul(p, q)
		if p.Cmp(q) == 0 || n.BitLen() != bits {
			continue
		}

		var pair *KeyPair
		if simple {
			pair, err = NewKeyPairFromPrimesSimple(p, q)
		} else {
			pair, err = NewKeyPairFromPrimes(reader, p, q, nil)
		}
		if errors.Is(err, arith.ErrNoInverse) {
			// λ shares a factor with n; only possible for tiny moduli.
			continue
		}
		return pair, err
	}
}

// drawFactors searches for the two prime factors concurrently. p gets one
// bit more than q so their product can reach the full modulus length.
func drawFactors(reader io.Reader, bits int, pl *pool.Pool) (p, q *big.Int, err error) {
	var g errgroup.Group
	g.Go(func() error {
		var err error
		p, err = prime.Prime(reader, bits/2+1, params.MillerRabinIterations, pl)
		return err
	})
	g.Go(func() error {
		var err error
		q, err = prime.Prime(reader, bits/2, params.MillerRabinIterations, pl)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return p, q, nil
}

// NewKeyPairFromPrimes constructs a general-variant keypair from the given
// primes. When g is nil a generator is sampled from rand; otherwise the
// given one is used as is. Bit lengths of p and q are not checked, the
// caller is trusted.
func NewKeyPairFromPrimes(rand io.Reader, p, q, g *big.Int) (*KeyPair, error) {
	n := new(big.Int).Mul(p, q)
	nSquared := new(big.Int).Mul(n, n)
	lambda := arith.Lcm(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))

	if g != nil {
		mu, err := computeMu(g, lambda, n, nSquared)
		if err != nil {
			return nil, fmt.Errorf("paillier: from primes: %w", err)
		}
		return assembleKeyPair(n, g, lambda, mu, p, q), nil
	}

	for i := 0; i < maxGeneratorAttempts; i++ {
		candidate, err := generator(rand, n, nSquared)
		if err != nil {
			return nil, err
		}
		mu, err := computeMu(candidate, lambda, n, nSquared)
		if errors.Is(err, arith.ErrNoInverse) {
			// The candidate's order is not a multiple of n. Overwhelmingly
			// unlikely, so resampling once is almost always enough.
			continue
		}
		if err != nil {
			return nil, err
		}
		return assembleKeyPair(n, candidate, lambda, mu, p, q), nil
	}
	return nil, ErrKeyGen
}

// NewKeyPairFromPrimesSimple constructs a simple-variant keypair: g = n+1,
// λ = (p-1)(q-1) and μ = λ⁻¹ mod n.
func NewKeyPairFromPrimesSimple(p, q *big.Int) (*KeyPair, error) {
	n := new(big.Int).Mul(p, q)
	g := new(big.Int).Add(n, one)
	lambda := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))
	mu, err := arith.ModInv(lambda, n)
	if err != nil {
		return nil, fmt.Errorf("paillier: simple variant: %w", err)
	}
	return assembleKeyPair(n, g, lambda, mu, p, q), nil
}

func assembleKeyPair(n, g, lambda, mu, p, q *big.Int) *KeyPair {
	pk := NewPublicKey(n, g)
	sk := &SecretKey{
		PublicKey: pk,
		lambda:    lambda,
		mu:        mu,
		p:         new(big.Int).Set(p),
		q:         new(big.Int).Set(q),
	}
	return &KeyPair{Public: pk, Secret: sk}
}

// generator samples from the distribution (α·n + 1)·βⁿ mod n² with α, β
// uniform in [1, n). Such elements have order a nonzero multiple of n with
// overwhelming probability.
func generator(rand io.Reader, n, nSquared *big.Int) (*big.Int, error) {
	nMinusOne := new(big.Int).Sub(n, one)
	alpha, err := sample.Between(rand, one, nMinusOne)
	if err != nil {
		return nil, err
	}
	beta, err := sample.Between(rand, one, nMinusOne)
	if err != nil {
		return nil, err
	}
	g, err := arith.ModPow(beta, n, nSquared)
	if err != nil {
		return nil, err
	}
	alpha.Mul(alpha, n)
	alpha.Add(alpha, one)
	g.Mul(g, alpha)
	g.Mod(g, nSquared)
	return g, nil
}

// computeMu derives μ = L(g^λ mod n²)⁻¹ mod n. A degenerate generator
// surfaces as arith.ErrNoInverse.
func computeMu(g, lambda, n, nSquared *big.Int) (*big.Int, error) {
	u, err := arith.ModPow(g, lambda, nSquared)
	if err != nil {
		return nil, err
	}
	return arith.ModInv(lFunc(u, n), n)
}

// lFunc is L(x) = (x - 1) / n, defined for x ≡ 1 (mod n).
func lFunc(x, n *big.Int) *big.Int {
	t := new(big.Int).Sub(x, one)
	return t.Quo(t, n)
}

// DualGenerator samples r uniform in [1, n1) until it is a unit modulo
// both moduli, so the same value can serve as an encryption nonce base
// under two independently generated keys.
func DualGenerator(rand io.Reader, n1, n2 *big.Int) (*big.Int, error) {
	nMinusOne := new(big.Int).Sub(n1, one)
	for i := 0; i < maxGeneratorAttempts; i++ {
		r, err := sample.Between(rand, one, nMinusOne)
		if err != nil {
			return nil, err
		}
		if arith.Gcd(r, n1).Cmp(one) == 0 && arith.Gcd(r, n2).Cmp(one) == 0 {
			return r, nil
		}
	}
	return nil, fmt.Errorf("paillier: dual generator: %w", ErrKeyGen)
}

// MulOtherN2 computes c^k mod nSquared for a caller-supplied modulus,
// interpreting or combining a ciphertext under a key other than the one
// that produced it. Pair it with DualGenerator for cross-key arithmetic.
func MulOtherN2(c, k, nSquared *big.Int) (*big.Int, error) {
	return arith.ModPow(c, k, nSquared)
}

// mustModPow is ModPow for operands that are units by construction; a
// failure means the key material itself is inconsistent.
func mustModPow(a, b, n *big.Int) *big.Int {
	r, err := arith.ModPow(a, b, n)
	if err != nil {
		panic(fmt.Sprintf("paillier: inconsistent key material: %v", err))
	}
	return r
}

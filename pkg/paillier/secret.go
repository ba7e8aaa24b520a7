package paillier

import (
	"fmt"
	"math/big"

	"github.com/taurusgroup/paillier/pkg/math/arith"
)

// SecretKey holds the trapdoor λ, μ for a public key. The prime factors
// p, q are carried when known; a key reconstructed from (λ, μ) alone works
// for decryption but cannot recover encryption nonces.
type SecretKey struct {
	*PublicKey
	lambda, mu *big.Int
	// p, q such that n = p·q; nil when the factorization is not known
	p, q *big.Int
}

// NewSecretKey assembles a secret key from the trapdoor values and the
// public key, without the prime factors. λ and μ are copied; the public
// key is shared.
func NewSecretKey(lambda, mu *big.Int, pk *PublicKey) *SecretKey {
	return &SecretKey{
		PublicKey: pk,
		lambda:    new(big.Int).Set(lambda),
		mu:        new(big.Int).Set(mu),
	}
}

// Lambda returns the secret exponent λ. Do not modify the returned value.
func (sk *SecretKey) Lambda() *big.Int { return sk.lambda }

// Mu returns μ = L(g^λ mod n²)⁻¹ mod n. Do not modify the returned value.
func (sk *SecretKey) Mu() *big.Int { return sk.mu }

// P returns the first prime factor, or nil when the key does not carry it.
func (sk *SecretKey) P() *big.Int { return sk.p }

// Q returns the second prime factor, or nil when the key does not carry it.
func (sk *SecretKey) Q() *big.Int { return sk.q }

// Dec decrypts c, returning the plaintext L(c^λ mod n²)·μ mod n in [0, n).
func (sk *SecretKey) Dec(c *big.Int) *big.Int {
	u := mustModPow(c, sk.lambda, sk.nSquared)
	m := lFunc(u, sk.n)
	m.Mul(m, sk.mu)
	m.Mod(m, sk.n)
	return m
}

// RandomFactor recovers the nonce r that produced the ciphertext c, as a
// value in [0, n). It requires the simple variant g = n+1 and a key that
// carries its prime factors.
//
// With m the plaintext of c, c·(1 - m·n) ≡ rⁿ (mod n²), and raising to
// n⁻¹ mod φ(n) undoes the n-th power.
func (sk *SecretKey) RandomFactor(c *big.Int) (*big.Int, error) {
	if new(big.Int).Sub(sk.g, sk.n).Cmp(one) != 0 {
		return nil, ErrNotSimpleVariant
	}
	if sk.p == nil || sk.q == nil {
		return nil, ErrMissingFactors
	}

	m := sk.Dec(c)
	phi := new(big.Int).Mul(new(big.Int).Sub(sk.p, one), new(big.Int).Sub(sk.q, one))
	nInv, err := arith.ModInv(sk.n, phi)
	if err != nil {
		return nil, fmt.Errorf("paillier: recovering nonce: %w", err)
	}

	c1 := new(big.Int).Mul(m, sk.n)
	c1.Sub(one, c1)
	c1.Mul(c1, c)
	c1.Mod(c1, sk.nSquared)
	return arith.ModPow(c1, nInv, sk.n)
}

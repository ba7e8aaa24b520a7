package paillier

import (
	"io"
	"math/big"

	"github.com/taurusgroup/paillier/pkg/hash"
	"github.com/taurusgroup/paillier/pkg/math/sample"
)

// PublicKey is the modulus n with the generator g. The square of the
// modulus is cached since every ciphertext operation reduces by it.
// Keys are immutable after construction and safe for concurrent use.
type PublicKey struct {
	n, g, nSquared *big.Int
	bits           int
}

// NewPublicKey assembles a public key from n and g. The arguments are
// copied; their consistency (n odd semiprime, g a unit of ℤ*_{n²}) is the
// caller's responsibility.
func NewPublicKey(n, g *big.Int) *PublicKey {
	nNew := new(big.Int).Set(n)
	return &PublicKey{
		n:        nNew,
		g:        new(big.Int).Set(g),
		nSquared: new(big.Int).Mul(nNew, nNew),
		bits:     nNew.BitLen(),
	}
}

// N returns the modulus. The returned value aliases the key's own;
// do not modify it.
func (pk *PublicKey) N() *big.Int { return pk.n }

// G returns the generator. The returned value aliases the key's own;
// do not modify it.
func (pk *PublicKey) G() *big.Int { return pk.g }

// N2 returns the cached n². The returned value aliases the key's own;
// do not modify it.
func (pk *PublicKey) N2() *big.Int { return pk.nSquared }

// BitLength returns the size of the modulus in bits.
func (pk *PublicKey) BitLength() int { return pk.bits }

// Equal reports whether both keys share modulus and generator.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.n.Cmp(other.n) == 0 && pk.g.Cmp(other.g) == 0
}

// Fingerprint returns a stable 32-byte identifier of the key, the
// domain-separated digest of (n, g).
func (pk *PublicKey) Fingerprint() []byte {
	h := hash.New("Paillier PublicKey")
	h.WriteInt(pk.n, pk.g)
	return h.Sum()
}

// Enc encrypts m, returning the ciphertext g^m · nonce^n mod n² together
// with the nonce that was used. A nil nonce means a fresh one is sampled
// from rand, uniform over the units of ℤₙ. Plaintexts outside [0, n) are
// accepted and decrypt to their residue mod n.
func (pk *PublicKey) Enc(rand io.Reader, m, nonce *big.Int) (*big.Int, *big.Int) {
	if nonce == nil {
		nonce = sample.UnitModN(rand, pk.n)
	}
	c := mustModPow(pk.g, m, pk.nSquared)
	c.Mul(c, mustModPow(nonce, pk.n, pk.nSquared))
	c.Mod(c, pk.nSquared)
	return c, nonce
}

// Add returns the homomorphic sum c₁·c₂·…·c_k mod n², which decrypts to
// the sum of the plaintexts mod n. At least two ciphertexts are required.
func (pk *PublicKey) Add(cts ...*big.Int) (*big.Int, error) {
	if len(cts) < 2 {
		return nil, ErrOperands
	}
	out := new(big.Int).Set(cts[0])
	for _, ct := range cts[1:] {
		out.Mul(out, ct)
		out.Mod(out, pk.nSquared)
	}
	return out, nil
}

// Mul returns c^k mod n², which decrypts to k times the plaintext of c,
// mod n.
func (pk *PublicKey) Mul(c, k *big.Int) *big.Int {
	return mustModPow(c, k, pk.nSquared)
}

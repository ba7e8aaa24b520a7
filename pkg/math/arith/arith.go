// Package arith implements the modular arithmetic underlying the Paillier
// cryptosystem: gcd and extended gcd, lcm, canonical reduction, modular
// inversion and modular exponentiation over big.Int values.
//
// Exponentiation with a nonnegative exponent and an odd modulus runs through
// saferith, whose square-and-multiply loop reduces at every step and has a
// structure that does not depend on the value of the operands. Even moduli,
// which the scheme itself never uses, go through math/big's Exp.
package arith

import (
	"errors"
	"math/big"

	"github.com/cronokirby/saferith"
)

var (
	// ErrNonPositive is returned when an argument that must be strictly
	// positive, such as a modulus, is zero or negative.
	ErrNonPositive = errors.New("arith: argument must be positive")

	// ErrNoInverse is returned by ModInv when the element is not a unit
	// of the given modulus.
	ErrNoInverse = errors.New("arith: no modular inverse exists")
)

var one = big.NewInt(1)

// Gcd returns the greatest common divisor of a and b using the binary
// algorithm. The result is always nonnegative; Gcd(a, 0) = |a| and
// Gcd(0, 0) = 0.
func Gcd(a, b *big.Int) *big.Int {
	u := new(big.Int).Abs(a)
	v := new(big.Int).Abs(b)
	if u.Sign() == 0 {
		return v
	}
	if v.Sign() == 0 {
		return u
	}

	// Factor out the common power of two, then subtract odd cofactors
	// until one of them vanishes.
	var shift uint
	for u.Bit(0) == 0 && v.Bit(0) == 0 {
		u.Rsh(u, 1)
		v.Rsh(v, 1)
		shift++
	}
	for u.Bit(0) == 0 {
		u.Rsh(u, 1)
	}
	for v.Sign() != 0 {
		for v.Bit(0) == 0 {
			v.Rsh(v, 1)
		}
		if u.Cmp(v) > 0 {
			u, v = v, u
		}
		v.Sub(v, u)
	}
	return u.Lsh(u, shift)
}

// EGcd computes the extended gcd of a and b iteratively, returning g, x, y
// such that a·x + b·y = g = gcd(a, b). Both arguments must be strictly
// positive.
func EGcd(a, b *big.Int) (g, x, y *big.Int, err error) {
	if a.Sign() <= 0 || b.Sign() <= 0 {
		return nil, nil, nil, ErrNonPositive
	}

	r0, r1 := new(big.Int).Set(a), new(big.Int).Set(b)
	x0, x1 := big.NewInt(1), new(big.Int)
	y0, y1 := new(big.Int), big.NewInt(1)
	q, t := new(big.Int), new(big.Int)
	for r1.Sign() != 0 {
		q.Quo(r0, r1)
		r0.Sub(r0, t.Mul(q, r1))
		r0, r1 = r1, r0
		x0.Sub(x0, t.Mul(q, x1))
		x0, x1 = x1, x0
		y0.Sub(y0, t.Mul(q, y1))
		y0, y1 = y1, y0
	}
	return r0, x0, y0, nil
}

// Lcm returns the least common multiple |a·b| / gcd(a, b), with
// Lcm(0, 0) = 0.
func Lcm(a, b *big.Int) *big.Int {
	g := Gcd(a, b)
	if g.Sign() == 0 {
		return new(big.Int)
	}
	p := new(big.Int).Mul(a, b)
	p.Abs(p)
	return p.Quo(p, g)
}

// ToZn returns the canonical representative of a in [0, n). The modulus
// must be strictly positive.
func ToZn(a, n *big.Int) (*big.Int, error) {
	if n.Sign() <= 0 {
		return nil, ErrNonPositive
	}
	return new(big.Int).Mod(a, n), nil
}

// ModInv returns the inverse of a modulo n, computed with the extended gcd
// of the canonical residue of a and n. It returns ErrNoInverse when a ≡ 0
// (mod n) or gcd(a, n) ≠ 1.
func ModInv(a, n *big.Int) (*big.Int, error) {
	r, err := ToZn(a, n)
	if err != nil {
		return nil, err
	}
	if r.Sign() == 0 {
		return nil, ErrNoInverse
	}
	g, x, _, err := EGcd(r, n)
	if err != nil {
		return nil, err
	}
	if g.Cmp(one) != 0 {
		return nil, ErrNoInverse
	}
	return ToZn(x, n)
}

// ModPow returns a^b mod n, always in [0, n). A negative exponent b is
// handled by inverting a^|b| mod n, so it requires gcd(a, n) = 1.
func ModPow(a, b, n *big.Int) (*big.Int, error) {
	if n.Sign() <= 0 {
		return nil, ErrNonPositive
	}
	if b.Sign() < 0 {
		r, err := ModPow(a, new(big.Int).Neg(b), n)
		if err != nil {
			return nil, err
		}
		return ModInv(r, n)
	}
	base, err := ToZn(a, n)
	if err != nil {
		return nil, err
	}
	return modPowNat(base, b, n), nil
}

// modPowNat computes base^e mod n, through saferith for odd n and through
// math/big for even n. It assumes n > 0, e ≥ 0 and 0 ≤ base < n.
func modPowNat(base, e, n *big.Int) *big.Int {
	if n.Bit(0) == 0 {
		return new(big.Int).Exp(base, e, n)
	}
	m := saferith.ModulusFromNat(new(saferith.Nat).SetBig(n, n.BitLen()))
	x := new(saferith.Nat).SetBig(base, announced(base))
	y := new(saferith.Nat).SetBig(e, announced(e))
	return new(saferith.Nat).Exp(x, y, m).Big()
}

// announced gives the bit capacity for a saferith conversion; zero values
// still need a single announced bit.
func announced(x *big.Int) int {
	if bits := x.BitLen(); bits > 0 {
		return bits
	}
	return 1
}

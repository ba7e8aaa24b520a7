package arith

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGcd(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{0, 0, 0},
		{0, 17, 17},
		{17, 0, 17},
		{1, 1, 1},
		{12, 18, 6},
		{-12, 18, 6},
		{12, -18, 6},
		{-12, -18, 6},
		{270, 192, 6},
		{1 << 20, 1 << 13, 1 << 13},
		{982451653, 57, 1},
	}
	for _, tc := range tests {
		got := Gcd(big.NewInt(tc.a), big.NewInt(tc.b))
		require.Equal(t, tc.want, got.Int64(), "gcd(%d, %d)", tc.a, tc.b)
	}
}

func TestGcdDoesNotAliasArguments(t *testing.T) {
	a := big.NewInt(270)
	b := big.NewInt(192)
	Gcd(a, b)
	require.Equal(t, int64(270), a.Int64())
	require.Equal(t, int64(192), b.Int64())
}

func TestEGcd(t *testing.T) {
	tests := []struct{ a, b int64 }{
		{1, 1},
		{12, 18},
		{240, 46},
		{982451653, 57},
		{1597, 1598},
	}
	for _, tc := range tests {
		a, b := big.NewInt(tc.a), big.NewInt(tc.b)
		g, x, y, err := EGcd(a, b)
		require.NoError(t, err)
		require.Equal(t, 0, g.Cmp(Gcd(a, b)))

		// a·x + b·y = g
		s := new(big.Int).Mul(a, x)
		s.Add(s, new(big.Int).Mul(b, y))
		require.Equal(t, 0, s.Cmp(g), "Bezout identity for (%d, %d)", tc.a, tc.b)
	}
}

func TestEGcdRejectsNonPositive(t *testing.T) {
	for _, tc := range [][2]int64{{0, 5}, {5, 0}, {-3, 5}, {5, -3}, {0, 0}} {
		_, _, _, err := EGcd(big.NewInt(tc[0]), big.NewInt(tc[1]))
		require.ErrorIs(t, err, ErrNonPositive)
	}
}

func TestLcm(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{0, 0, 0},
		{0, 4, 0},
		{4, 6, 12},
		{-4, 6, 12},
		{7, 13, 91},
		{10, 120, 120},
	}
	for _, tc := range tests {
		got := Lcm(big.NewInt(tc.a), big.NewInt(tc.b))
		require.Equal(t, tc.want, got.Int64(), "lcm(%d, %d)", tc.a, tc.b)
	}
}

func TestToZn(t *testing.T) {
	n := big.NewInt(7)
	tests := []struct {
		a, want int64
	}{
		{0, 0},
		{1, 1},
		{7, 0},
		{8, 1},
		{-1, 6},
		{-15, 6},
	}
	for _, tc := range tests {
		got, err := ToZn(big.NewInt(tc.a), n)
		require.NoError(t, err)
		require.Equal(t, tc.want, got.Int64(), "%d mod 7", tc.a)
	}

	_, err := ToZn(big.NewInt(3), big.NewInt(0))
	require.ErrorIs(t, err, ErrNonPositive)
	_, err = ToZn(big.NewInt(3), big.NewInt(-7))
	require.ErrorIs(t, err, ErrNonPositive)
}

func TestModInv(t *testing.T) {
	n := big.NewInt(143)
	for a := int64(1); a < 143; a++ {
		aInt := big.NewInt(a)
		inv, err := ModInv(aInt, n)
		if Gcd(aInt, n).Cmp(big.NewInt(1)) != 0 {
			require.ErrorIs(t, err, ErrNoInverse, "a = %d", a)
			continue
		}
		require.NoError(t, err, "a = %d", a)

		prod := new(big.Int).Mul(aInt, inv)
		prod.Mod(prod, n)
		require.Equal(t, int64(1), prod.Int64(), "a = %d", a)
	}
}

func TestModInvErrors(t *testing.T) {
	_, err := ModInv(big.NewInt(0), big.NewInt(7))
	require.ErrorIs(t, err, ErrNoInverse)
	_, err = ModInv(big.NewInt(14), big.NewInt(7))
	require.ErrorIs(t, err, ErrNoInverse)
	_, err = ModInv(big.NewInt(3), big.NewInt(0))
	require.ErrorIs(t, err, ErrNonPositive)
}

func TestModPow(t *testing.T) {
	tests := []struct {
		a, b, n, want int64
	}{
		{2, 10, 1000, 24},
		{3, 0, 7, 1},
		{3, 1, 7, 3},
		{0, 5, 7, 0},
		{-2, 3, 7, 6},
		{5, 3, 1, 0},
		{144, 7, 20449, 1002},
	}
	for _, tc := range tests {
		got, err := ModPow(big.NewInt(tc.a), big.NewInt(tc.b), big.NewInt(tc.n))
		require.NoError(t, err)
		require.Equal(t, tc.want, got.Int64(), "%d^%d mod %d", tc.a, tc.b, tc.n)
	}
}

func TestModPowNegativeExponent(t *testing.T) {
	n := big.NewInt(143)
	got, err := ModPow(big.NewInt(2), big.NewInt(-1), n)
	require.NoError(t, err)
	prod := new(big.Int).Mul(got, big.NewInt(2))
	prod.Mod(prod, n)
	require.Equal(t, int64(1), prod.Int64())

	// no inverse when the base shares a factor with the modulus
	_, err = ModPow(big.NewInt(11), big.NewInt(-3), n)
	require.ErrorIs(t, err, ErrNoInverse)
}

func TestModPowZeroModulus(t *testing.T) {
	_, err := ModPow(big.NewInt(2), big.NewInt(3), big.NewInt(0))
	require.ErrorIs(t, err, ErrNonPositive)
}

// a^(b+c) = a^b · a^c mod n, on random operands of cryptographic size.
func TestModPowAdditiveLaw(t *testing.T) {
	bound := new(big.Int).Lsh(big.NewInt(1), 256)
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, bound)
		require.NoError(t, err)
		n.Add(n, big.NewInt(2))
		a, _ := rand.Int(rand.Reader, n)
		b, _ := rand.Int(rand.Reader, n)
		c, _ := rand.Int(rand.Reader, n)

		ab, err := ModPow(a, b, n)
		require.NoError(t, err)
		ac, err := ModPow(a, c, n)
		require.NoError(t, err)
		sum, err := ModPow(a, new(big.Int).Add(b, c), n)
		require.NoError(t, err)

		prod := new(big.Int).Mul(ab, ac)
		prod.Mod(prod, n)
		require.Equal(t, 0, prod.Cmp(sum))
	}
}

func TestModPowMatchesBigExp(t *testing.T) {
	bound := new(big.Int).Lsh(big.NewInt(1), 512)
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rand.Reader, bound)
		require.NoError(t, err)
		n.Add(n, big.NewInt(1))
		a, _ := rand.Int(rand.Reader, bound)
		b, _ := rand.Int(rand.Reader, bound)

		got, err := ModPow(a, b, n)
		require.NoError(t, err)
		want := new(big.Int).Exp(new(big.Int).Mod(a, n), b, n)
		require.Equal(t, 0, got.Cmp(want))
	}
}

var resultInt *big.Int

func BenchmarkModPow(b *testing.B) {
	bound := new(big.Int).Lsh(big.NewInt(1), 2048)
	n, _ := rand.Int(rand.Reader, bound)
	n.SetBit(n, 2047, 1)
	x, _ := rand.Int(rand.Reader, n)
	e, _ := rand.Int(rand.Reader, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resultInt, _ = ModPow(x, e, n)
	}
}

package hash

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func digest(domain string, xs ...*big.Int) []byte {
	h := New(domain)
	h.WriteInt(xs...)
	return h.Sum()
}

func TestSumIsDeterministic(t *testing.T) {
	a := digest("test", big.NewInt(42), big.NewInt(143))
	b := digest("test", big.NewInt(42), big.NewInt(143))
	require.Equal(t, a, b)
	require.Len(t, a, Size)
}

func TestDomainSeparation(t *testing.T) {
	a := digest("domain-a", big.NewInt(42))
	b := digest("domain-b", big.NewInt(42))
	require.NotEqual(t, a, b)
}

func TestInputSeparation(t *testing.T) {
	// same byte stream, different split
	a := digest("test", big.NewInt(0x0102), big.NewInt(0x03))
	b := digest("test", big.NewInt(0x01), big.NewInt(0x0203))
	require.NotEqual(t, a, b)

	// sign matters
	c := digest("test", big.NewInt(5))
	d := digest("test", big.NewInt(-5))
	require.NotEqual(t, c, d)
}

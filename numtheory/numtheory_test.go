package numtheory

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModPow(t *testing.T) {
	cases := []struct {
		base, exp, mod, want int64
	}{
		{2, 10, 1000, 24},
		{5, 0, 7, 1},
		{3, 4, 5, 1},
		{7, 3, 11, 2},   // 343 mod 11
		{-2, 3, 5, 2},   // (-8) mod 5
		{10, 1, 7, 3},
	}
	for _, c := range cases {
		got, err := ModPow(big.NewInt(c.base), big.NewInt(c.exp), big.NewInt(c.mod))
		require.NoError(t, err)
		assert.Equal(t, c.want, got.Int64(), "%d^%d mod %d", c.base, c.exp, c.mod)
	}
}

func TestModPowErrors(t *testing.T) {
	_, err := ModPow(big.NewInt(2), big.NewInt(3), big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidModulus)

	_, err = ModPow(big.NewInt(2), big.NewInt(-1), big.NewInt(7))
	assert.ErrorIs(t, err, ErrNegativeExponent)
}

func TestGCD(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{12, 18, 6},
		{17, 31, 1},
		{0, 5, 5},
		{5, 0, 5},
		{-12, 18, 6},
		{3120, 17, 1},
	}
	for _, c := range cases {
		got := GCD(big.NewInt(c.a), big.NewInt(c.b))
		assert.Equal(t, c.want, got.Int64(), "gcd(%d, %d)", c.a, c.b)
	}
}

func TestModInverse(t *testing.T) {
	// The classic textbook pair: 17^-1 mod 3120 = 2753.
	inv, err := ModInverse(big.NewInt(17), big.NewInt(3120))
	require.NoError(t, err)
	assert.Equal(t, int64(2753), inv.Int64())

	inv, err = ModInverse(big.NewInt(3), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, int64(5), inv.Int64())

	// Verify a * a^-1 = 1 mod m across a spread of values.
	m := big.NewInt(10007)
	for a := int64(1); a < 100; a++ {
		inv, err := ModInverse(big.NewInt(a), m)
		require.NoError(t, err)
		product := new(big.Int).Mul(big.NewInt(a), inv)
		product.Mod(product, m)
		assert.Equal(t, int64(1), product.Int64(), "a=%d", a)
	}
}

func TestModInverseErrors(t *testing.T) {
	_, err := ModInverse(big.NewInt(2), big.NewInt(4))
	assert.ErrorIs(t, err, ErrNoInverse)

	_, err = ModInverse(big.NewInt(2), big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidModulus)
}

func TestIsProbablePrime(t *testing.T) {
	primes := []int64{2, 3, 5, 7, 11, 61, 53, 97, 7919, 65537}
	for _, p := range primes {
		assert.True(t, IsProbablePrime(big.NewInt(p), 32), "%d should be prime", p)
	}

	composites := []int64{0, 1, 4, 9, 15, 561, 1105, 3233, 6601}
	for _, c := range composites {
		assert.False(t, IsProbablePrime(big.NewInt(c), 32), "%d should be composite", c)
	}

	// Mersenne prime below the deterministic witness bound.
	m61 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 61), big.NewInt(1))
	assert.True(t, IsProbablePrime(m61, 32))

	// Mersenne prime above the bound exercises the random-witness path.
	m89 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 89), big.NewInt(1))
	assert.True(t, IsProbablePrime(m89, 32))

	// A large square above the bound must be rejected.
	square := new(big.Int).Mul(m61, m61)
	assert.False(t, IsProbablePrime(square, 32))

	// Non-positive round counts still run a witness; zero rounds can
	// never certify a composite as prime.
	assert.False(t, IsProbablePrime(square, 0))
	assert.True(t, IsProbablePrime(m89, 0))
}

func TestRandomPrime(t *testing.T) {
	for _, bits := range []int{8, 16, 32, 64} {
		p, err := RandomPrime(bits)
		require.NoError(t, err)
		assert.Equal(t, bits, p.BitLen(), "bit length")
		assert.Equal(t, uint(1), p.Bit(0), "prime must be odd")
		assert.True(t, IsProbablePrime(p, 32))
	}

	_, err := RandomPrime(4)
	assert.Error(t, err)
}

func TestRandomBelow(t *testing.T) {
	n := big.NewInt(3233)
	lo := big.NewInt(2)
	hi := new(big.Int).Sub(n, big.NewInt(2))
	for i := 0; i < 200; i++ {
		m, err := RandomBelow(n)
		require.NoError(t, err)
		assert.True(t, m.Cmp(lo) >= 0 && m.Cmp(hi) <= 0, "m=%v out of [2, n-2]", m)
	}

	_, err := RandomBelow(big.NewInt(4))
	assert.Error(t, err)
}

func TestRandomBelowTinyModulus(t *testing.T) {
	// For n=5 the valid range [2, n-2] is exactly {2, 3}. Enough draws to
	// hit every representable byte value many times over; n-1 must never
	// appear and both valid values must.
	n := big.NewInt(5)
	seen := map[int64]int{}
	for i := 0; i < 2000; i++ {
		m, err := RandomBelow(n)
		require.NoError(t, err)
		v := m.Int64()
		require.True(t, v == 2 || v == 3, "sampled %d outside [2, 3]", v)
		seen[v]++
	}
	assert.NotZero(t, seen[2])
	assert.NotZero(t, seen[3])
}

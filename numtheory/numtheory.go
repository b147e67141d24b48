// Package numtheory implements the big-integer number theory the
// simulator is built on: modular exponentiation, the extended Euclidean
// algorithm, Miller-Rabin primality testing and prime generation.
//
// The algorithms are written out explicitly rather than delegated to
// math/big's higher-level helpers; the demonstrable arithmetic is the
// point of the system.
package numtheory

import (
	"errors"
	"math/big"

	"github.com/kemlab/qkemsim-go/utils"
)

var (
	// ErrNoInverse indicates gcd(a, modulus) != 1, so no modular inverse exists.
	ErrNoInverse = errors.New("no modular inverse: arguments are not coprime")

	// ErrInvalidModulus indicates a modulus <= 1.
	ErrInvalidModulus = errors.New("modulus must be greater than 1")

	// ErrNegativeExponent indicates a negative exponent passed to ModPow.
	ErrNegativeExponent = errors.New("exponent must be non-negative")
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

// deterministicWitnessBound is the bound below which the fixed witness
// set {2..37} is a complete Miller-Rabin certificate (Sorenson/Webster).
var deterministicWitnessBound, _ = new(big.Int).SetString("3317044064679887385961981", 10)

var deterministicWitnesses = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// ModPow computes base^exponent mod modulus by square-and-multiply.
// The exponent must be non-negative and the modulus greater than 1.
func ModPow(base, exponent, modulus *big.Int) (*big.Int, error) {
	if modulus.Cmp(one) <= 0 {
		return nil, ErrInvalidModulus
	}
	if exponent.Sign() < 0 {
		return nil, ErrNegativeExponent
	}

	result := big.NewInt(1)
	b := new(big.Int).Mod(base, modulus)
	e := new(big.Int).Set(exponent)

	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
		b.Mul(b, b)
		b.Mod(b, modulus)
		e.Rsh(e, 1)
	}
	return result, nil
}

// GCD computes the greatest common divisor of a and b by the Euclidean
// algorithm. Inputs are taken by absolute value.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	for y.Sign() != 0 {
		x, y = y, new(big.Int).Mod(x, y)
	}
	return x
}

// ModInverse computes a^-1 mod modulus by the extended Euclidean
// algorithm. Returns ErrNoInverse when gcd(a, modulus) != 1.
func ModInverse(a, modulus *big.Int) (*big.Int, error) {
	if modulus.Cmp(one) <= 0 {
		return nil, ErrInvalidModulus
	}

	// Iterative extended Euclid on (a mod m, m), tracking only the
	// coefficient of a.
	r0 := new(big.Int).Mod(a, modulus)
	r1 := new(big.Int).Set(modulus)
	s0 := big.NewInt(1)
	s1 := big.NewInt(0)

	for r1.Sign() != 0 {
		q := new(big.Int).Div(r0, r1)
		r0, r1 = r1, r0.Sub(r0, new(big.Int).Mul(q, r1))
		s0, s1 = s1, s0.Sub(s0, new(big.Int).Mul(q, s1))
	}

	if r0.Cmp(one) != 0 {
		return nil, ErrNoInverse
	}
	if s0.Sign() < 0 {
		s0.Add(s0, modulus)
	}
	return s0, nil
}

// IsProbablePrime reports whether n is prime using Miller-Rabin.
// Below the Sorenson-Webster bound the fixed witness set is used and the
// answer is exact; above it, `rounds` random witnesses bound the
// false-positive probability by 4^(-rounds).
func IsProbablePrime(n *big.Int, rounds int) bool {
	if n.Cmp(two) < 0 {
		return false
	}
	if n.Cmp(two) == 0 {
		return true
	}
	if n.Bit(0) == 0 {
		return false
	}

	// n-1 = d * 2^s with d odd.
	nMinus1 := new(big.Int).Sub(n, one)
	d := new(big.Int).Set(nMinus1)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	if n.Cmp(deterministicWitnessBound) < 0 {
		for _, w := range deterministicWitnesses {
			a := big.NewInt(w)
			if a.Cmp(nMinus1) >= 0 {
				continue
			}
			if millerRabinWitness(a, d, n, nMinus1, s) {
				return false
			}
		}
		return true
	}

	// At least one random round, so rounds <= 0 can never certify a prime.
	if rounds < 1 {
		rounds = 1
	}
	for i := 0; i < rounds; i++ {
		a, err := randomWitness(n)
		if err != nil {
			// Entropy failure: treat the candidate as composite so a
			// broken CSPRNG can never certify a prime.
			return false
		}
		if millerRabinWitness(a, d, n, nMinus1, s) {
			return false
		}
	}
	return true
}

// millerRabinWitness reports whether a witnesses the compositeness of n,
// where n-1 = d * 2^s.
func millerRabinWitness(a, d, n, nMinus1 *big.Int, s int) bool {
	x, err := ModPow(a, d, n)
	if err != nil {
		return true
	}
	if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
		return false
	}
	for i := 0; i < s-1; i++ {
		x.Mul(x, x)
		x.Mod(x, n)
		if x.Cmp(nMinus1) == 0 {
			return false
		}
	}
	return true
}

// randomWitness samples a uniform witness in [2, n-2].
func randomWitness(n *big.Int) (*big.Int, error) {
	// [2, n-2] holds n-3 values, so accept a in [0, n-4] and shift.
	span := new(big.Int).Sub(n, big.NewInt(3))
	byteLen := (span.BitLen() + 7) / 8
	for {
		buf, err := utils.SecureRandomBytes(byteLen)
		if err != nil {
			return nil, err
		}
		a := new(big.Int).SetBytes(buf)
		if a.Cmp(span) < 0 {
			return a.Add(a, two), nil
		}
	}
}

// RandomPrime samples odd candidates of exactly the requested bit length
// from the secure entropy source until Miller-Rabin accepts one. The top
// two bits are forced so a product of two such primes reaches the full
// target length.
func RandomPrime(bits int) (*big.Int, error) {
	if bits < 8 {
		return nil, errors.New("prime bit length must be at least 8")
	}

	const rounds = 32
	byteLen := (bits + 7) / 8

	for {
		buf, err := utils.SecureRandomBytes(byteLen)
		if err != nil {
			return nil, err
		}

		candidate := new(big.Int).SetBytes(buf)
		// Trim to exactly `bits`, force the two top bits and oddness.
		excess := candidate.BitLen() - bits
		if excess > 0 {
			candidate.Rsh(candidate, uint(excess))
		}
		candidate.SetBit(candidate, bits-1, 1)
		candidate.SetBit(candidate, bits-2, 1)
		candidate.SetBit(candidate, 0, 1)

		if IsProbablePrime(candidate, rounds) {
			return candidate, nil
		}
	}
}

// RandomBelow samples a uniform integer in [2, n-2]. Used for RSA-KEM
// seed integers.
func RandomBelow(n *big.Int) (*big.Int, error) {
	if n.Cmp(big.NewInt(5)) < 0 {
		return nil, errors.New("modulus too small to sample a seed")
	}
	return randomWitness(n)
}

// Package rsakem implements the quantum-vulnerable half of the
// simulation: RSA key generation and RFC 5990-style key encapsulation.
//
// Encapsulation samples a uniform seed integer m in [2, n-2], transmits
// c = m^e mod n, and derives the fixed-size shared secret from m with a
// domain-separated SHAKE256. Decapsulation recovers m via CRT and
// re-derives the same secret. The seed-plus-KDF construction lets even
// tiny demo moduli (n = 3233) carry a full-width shared secret.
package rsakem

import (
	"errors"
	"fmt"
	"math/big"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/core"
	"github.com/kemlab/qkemsim-go/numtheory"
	"github.com/kemlab/qkemsim-go/utils"
)

const (
	// DomainSharedSecret separates the KEM secret derivation from every
	// other SHAKE use in the module.
	DomainSharedSecret = "qkemsim-rsa-kem-ss-v1"

	// SecretSize is the shared secret length in bytes.
	SecretSize = 16

	// maxGenerateAttempts bounds prime-pair sampling retries.
	maxGenerateAttempts = 100
)

var (
	// ErrDecoding indicates the decrypted integer does not correspond to
	// a validly encoded seed. Distinct from attack failure.
	ErrDecoding = errors.New("decapsulated value is not a valid seed encoding")

	// ErrCiphertextRange indicates a ciphertext outside [0, n).
	ErrCiphertextRange = errors.New("ciphertext out of range for modulus")

	// ErrExponentNotCoprime indicates e shares a factor with the totient.
	ErrExponentNotCoprime = errors.New("public exponent not coprime to totient")
)

var one = big.NewInt(1)

// Generate creates an RSA key pair: two distinct primes of Bits/2 bits
// whose product reaches the target bit length, public exponent e
// validated coprime to phi(n) = (p-1)(q-1), and d = e^-1 mod phi(n).
func Generate(params qkemsim.RSAParams) (*qkemsim.RSAKeyPair, error) {
	if err := core.ValidateRSAParams(params); err != nil {
		return nil, err
	}

	e := big.NewInt(params.E)
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		p, err := numtheory.RandomPrime(params.Bits / 2)
		if err != nil {
			return nil, err
		}
		q, err := numtheory.RandomPrime(params.Bits / 2)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}

		kp, err := assemble(p, q, e)
		if err != nil {
			// Unlucky prime pair (exponent not coprime); resample.
			continue
		}
		if kp.PublicKey.N.BitLen() != params.Bits {
			continue
		}
		return kp, nil
	}
	return nil, errors.New("failed to generate a valid prime pair")
}

// NewKeyPairFromPrimes builds a key pair from caller-supplied primes.
// Used by demos and tests with known factorable moduli (e.g. 61 x 53).
func NewKeyPairFromPrimes(p, q, e *big.Int) (*qkemsim.RSAKeyPair, error) {
	if p.Cmp(q) == 0 {
		return nil, errors.New("primes must be distinct")
	}
	if !numtheory.IsProbablePrime(p, 32) || !numtheory.IsProbablePrime(q, 32) {
		return nil, errors.New("inputs must both be prime")
	}
	return assemble(p, q, e)
}

// assemble derives the full key pair from a validated prime pair.
func assemble(p, q, e *big.Int) (*qkemsim.RSAKeyPair, error) {
	n := new(big.Int).Mul(p, q)

	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	phi := new(big.Int).Mul(pMinus1, qMinus1)

	if numtheory.GCD(e, phi).Cmp(one) != 0 {
		return nil, ErrExponentNotCoprime
	}
	d, err := numtheory.ModInverse(e, phi)
	if err != nil {
		return nil, fmt.Errorf("deriving private exponent: %w", err)
	}

	return &qkemsim.RSAKeyPair{
		PublicKey: qkemsim.RSAPublicKey{N: n, E: new(big.Int).Set(e)},
		SecretKey: qkemsim.RSAPrivateKey{N: n, D: d, P: p, Q: q},
	}, nil
}

// Encapsulate samples a seed integer m uniform in [2, n-2] from the
// secure entropy source, computes the ciphertext c = m^e mod n, and
// derives the shared secret from m. Only the ciphertext crosses the wire.
func Encapsulate(pk *qkemsim.RSAPublicKey) (*qkemsim.EncapsulatedSecret, error) {
	m, err := numtheory.RandomBelow(pk.N)
	if err != nil {
		return nil, err
	}

	c, err := numtheory.ModPow(m, pk.E, pk.N)
	if err != nil {
		return nil, err
	}

	return &qkemsim.EncapsulatedSecret{
		Ciphertext: c,
		Secret:     DeriveSecret(pk.N, m),
	}, nil
}

// Decapsulate recovers the seed integer m = c^d mod n (via CRT over the
// retained primes) and re-derives the shared secret. Returns ErrDecoding
// when the recovered integer leaves the valid seed range.
func Decapsulate(sk *qkemsim.RSAPrivateKey, ciphertext *big.Int) ([]byte, error) {
	if ciphertext.Sign() < 0 || ciphertext.Cmp(sk.N) >= 0 {
		return nil, ErrCiphertextRange
	}

	m, err := crtDecrypt(sk, ciphertext)
	if err != nil {
		return nil, err
	}

	// Valid seeds lie in [2, n-2].
	upper := new(big.Int).Sub(sk.N, big.NewInt(2))
	if m.Cmp(big.NewInt(2)) < 0 || m.Cmp(upper) > 0 {
		return nil, ErrDecoding
	}

	return DeriveSecret(sk.N, m), nil
}

// crtDecrypt computes c^d mod n with Garner's form of the Chinese
// Remainder Theorem over the prime factors.
func crtDecrypt(sk *qkemsim.RSAPrivateKey, c *big.Int) (*big.Int, error) {
	dp := new(big.Int).Mod(sk.D, new(big.Int).Sub(sk.P, one))
	dq := new(big.Int).Mod(sk.D, new(big.Int).Sub(sk.Q, one))

	m1, err := numtheory.ModPow(c, dp, sk.P)
	if err != nil {
		return nil, err
	}
	m2, err := numtheory.ModPow(c, dq, sk.Q)
	if err != nil {
		return nil, err
	}

	qInv, err := numtheory.ModInverse(sk.Q, sk.P)
	if err != nil {
		return nil, fmt.Errorf("CRT coefficient: %w", err)
	}

	h := new(big.Int).Sub(m1, m2)
	h.Mul(h, qInv)
	h.Mod(h, sk.P)

	m := new(big.Int).Mul(h, sk.Q)
	m.Add(m, m2)
	return m, nil
}

// DeriveSecret maps a seed integer to the fixed-size shared secret. The
// seed is serialized at the modulus width so the encapsulating,
// decapsulating and attacking parties all derive identical bytes.
func DeriveSecret(n, m *big.Int) []byte {
	width := (n.BitLen() + 7) / 8
	encoded := make([]byte, width)
	m.FillBytes(encoded)
	return utils.Shake256WithDomain(DomainSharedSecret, encoded, SecretSize)
}

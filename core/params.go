// Package core provides parameter sets and validation for qkemsim.
package core

import (
	"errors"
	"fmt"
	"math"

	qkemsim "github.com/kemlab/qkemsim-go"
)

// RSAToyParams is a deliberately factorable parameter set for the
// complete attack-cycle demo. 32-bit moduli fall to Pollard's rho in
// well under the default effort budget.
var RSAToyParams = qkemsim.RSAParams{
	Bits: 32,
	E:    65537,
}

// RSA256Params produces moduli whose smallest factor is far beyond what
// the bounded factorizer can reach; attacks against it demonstrate
// budget exhaustion.
var RSA256Params = qkemsim.RSAParams{
	Bits: 256,
	E:    65537,
}

// RSA512Params is the largest set exercised by the demos.
var RSA512Params = qkemsim.RSAParams{
	Bits: 512,
	E:    65537,
}

// Lat128Params is the small lattice parameter set used for mass
// round-trip trials. It carries a 16-byte shared secret (one message bit
// per ring coefficient).
var Lat128Params = qkemsim.LatticeParams{
	Name:       "LAT-128",
	Degree:     128,
	K:          2,
	Q:          3329,
	Eta:        2,
	SecretSize: 16,
}

// Lat256Params mirrors Kyber512-shaped dimensions and carries a 32-byte
// shared secret.
var Lat256Params = qkemsim.LatticeParams{
	Name:       "LAT-256",
	Degree:     256,
	K:          2,
	Q:          3329,
	Eta:        2,
	SecretSize: 32,
}

// GetLatticeParams returns the named lattice parameter set.
func GetLatticeParams(name string) (qkemsim.LatticeParams, error) {
	switch name {
	case Lat128Params.Name:
		return Lat128Params, nil
	case Lat256Params.Name:
		return Lat256Params, nil
	default:
		return qkemsim.LatticeParams{}, fmt.Errorf("unknown lattice parameter set: %s", name)
	}
}

// ValidateRSAParams validates an RSA parameter set. Parameter errors fail
// fast here; they are never silently corrected downstream.
func ValidateRSAParams(params qkemsim.RSAParams) error {
	if params.Bits < 16 {
		return errors.New("RSA bit length must be at least 16")
	}
	if params.Bits > 4096 {
		return errors.New("RSA bit length must be at most 4096")
	}
	if params.Bits%2 != 0 {
		return errors.New("RSA bit length must be even")
	}
	if params.E < 3 || params.E%2 == 0 {
		return errors.New("RSA public exponent must be an odd integer >= 3")
	}
	return nil
}

// ValidateLatticeParams validates a lattice parameter set, including the
// decode-margin invariant: the accumulated decapsulation noise must stay
// below half the symbol gap (q/4) with overwhelming probability. The
// margin check requires q/4 to exceed twelve standard deviations of the
// per-coefficient noise, which keeps the empirical failure rate at zero
// across any realistic number of trials.
func ValidateLatticeParams(params qkemsim.LatticeParams) error {
	if params.Degree <= 0 || params.Degree&(params.Degree-1) != 0 {
		return errors.New("lattice degree must be a positive power of two")
	}
	if params.K <= 0 {
		return errors.New("lattice module rank must be positive")
	}
	if !isPrime(params.Q) {
		return errors.New("lattice modulus must be prime")
	}
	if params.Q < 256 {
		return errors.New("lattice modulus too small for byte encoding")
	}
	if params.Eta <= 0 || params.Eta > 8 {
		return errors.New("lattice noise parameter must be in [1, 8]")
	}
	if params.SecretSize <= 0 {
		return errors.New("lattice secret size must be positive")
	}
	if params.SecretSize*8 > params.Degree {
		return errors.New("lattice secret does not fit: need secret_size*8 <= degree")
	}

	// Per-coefficient noise is a sum of ~2*K*Degree products of centered
	// binomial variables (variance eta/2 each) plus one fresh noise term.
	variance := float64(2*params.K*params.Degree) * math.Pow(float64(params.Eta)/2, 2)
	if float64(params.Q)/4 <= 12*math.Sqrt(variance) {
		return errors.New("lattice parameters violate the decode margin: q/4 too small for noise level")
	}
	return nil
}

// isPrime checks primality by trial division. Used only for validating
// small ring moduli, not for generating RSA primes.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

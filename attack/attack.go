// Package attack models the "harvest now, decrypt later" adversary. The
// engine consumes only public artifacts (the RSA public key and an
// intercepted ciphertext) and attempts to rederive the private key by
// factoring the modulus. It never reads stored private key material;
// rederivation from public data is the point being demonstrated.
package attack

import (
	"fmt"
	"math/big"
	"time"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/factor"
	"github.com/kemlab/qkemsim-go/numtheory"
	"github.com/kemlab/qkemsim-go/rsakem"
)

var one = big.NewInt(1)

// Engine is a harvest-now-decrypt-later adversary with a bounded
// factoring capability.
type Engine struct {
	Budget factor.Budget
}

// NewEngine returns an attack engine with the given effort budget.
func NewEngine(budget factor.Budget) *Engine {
	return &Engine{Budget: budget}
}

// AttackRSA attempts to recover the encapsulated secret from the public
// key and intercepted ciphertext alone.
//
// On successful factorization it reconstructs phi(n) from the recovered
// primes, derives d, and decapsulates exactly as the legitimate party
// would. Budget exhaustion yields a failed verdict with reason
// budget_exhausted; that is the expected terminal state for realistically
// sized moduli, not an error. Errors are reserved for invariant violations.
func (e *Engine) AttackRSA(pk *qkemsim.RSAPublicKey, ciphertext *big.Int) (qkemsim.AttackVerdict, error) {
	start := time.Now()
	verdict := qkemsim.AttackVerdict{Target: qkemsim.TargetRSA}

	res, err := factor.Factor(pk.N, e.Budget)
	verdict.Attempts = res.Attempts
	if err != nil {
		return verdict, fmt.Errorf("factoring target modulus: %w", err)
	}

	if !res.Found {
		verdict.Reason = qkemsim.ReasonBudgetExhausted
		verdict.Elapsed = time.Since(start)
		return verdict, nil
	}

	// phi(n) = (p-1)(q-1) from the recovered factors.
	phi := new(big.Int).Mul(
		new(big.Int).Sub(res.P, one),
		new(big.Int).Sub(res.Q, one),
	)
	d, err := numtheory.ModInverse(pk.E, phi)
	if err != nil {
		// Valid factors but no inverse: the public key itself was
		// malformed. An invariant failure, never "attack failed".
		return verdict, fmt.Errorf("deriving private exponent from factors: %w", err)
	}

	derived := &qkemsim.RSAPrivateKey{N: pk.N, D: d, P: res.P, Q: res.Q}
	secret, err := rsakem.Decapsulate(derived, ciphertext)
	if err != nil {
		return verdict, fmt.Errorf("decapsulating with derived key: %w", err)
	}

	verdict.Succeeded = true
	verdict.RecoveredSecret = secret
	verdict.Reason = qkemsim.ReasonFactored
	verdict.Elapsed = time.Since(start)
	return verdict, nil
}

// AttackLattice reports the deterministic outcome of pointing the
// factoring adversary at the lattice KEM: there is no modulus to factor,
// so the verdict is not_applicable on every invocation regardless of
// budget. Recovering s from (A, t) is a noisy-linear-system problem with
// no known reduction to integer factoring.
func (e *Engine) AttackLattice(pk *qkemsim.LatticePublicKey, ct *qkemsim.LatticeCiphertext) qkemsim.AttackVerdict {
	return qkemsim.AttackVerdict{
		Target:    qkemsim.TargetLattice,
		Succeeded: false,
		Reason:    qkemsim.ReasonNotApplicable,
	}
}

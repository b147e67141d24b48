// Package factor implements the bounded integer factorizer used by the
// attack engine: trial division for small factors, then Pollard's rho
// with Floyd cycle detection under a caller-supplied effort budget.
//
// Budget exhaustion is an expected outcome, returned as a result value,
// never as an error. It models "the quantum computer is not available
// yet" for moduli beyond demo scale.
package factor

import (
	"errors"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/numtheory"
	"github.com/kemlab/qkemsim-go/utils"
)

const (
	// trialDivisionBound is the exclusive upper bound for small-prime
	// trial division before Pollard's rho takes over.
	trialDivisionBound = 10000

	// budgetCheckInterval is how many rho iterations a worker runs
	// between budget checks. The budget overshoot is bounded by
	// workers * budgetCheckInterval.
	budgetCheckInterval = 128

	// primalityRounds for re-validating candidate factors.
	primalityRounds = 32
)

var (
	// ErrNotComposite indicates the input is prime (or < 4) and has no
	// non-trivial factorization.
	ErrNotComposite = errors.New("input is not a composite number")

	// ErrNotSemiprime indicates a non-trivial factor was found but the
	// cofactor pair is not two primes, so the input is not an RSA-style
	// modulus. This is a parameter error, distinct from budget exhaustion.
	ErrNotSemiprime = errors.New("input is not a product of two primes")

	// ErrFactorInvariant indicates the internal correctness gate failed:
	// accepted factors do not multiply back to n. A defect, never an
	// expected outcome.
	ErrFactorInvariant = errors.New("factor invariant violation: p*q != n")
)

// DefaultMaxIterations is the default rho effort budget. Enough to split
// any 32-bit semiprime with margin while keeping exhaustion runs fast.
const DefaultMaxIterations uint64 = 1 << 20

// Budget bounds the factoring effort by total rho iteration count.
type Budget struct {
	MaxIterations uint64
}

// IterBudget returns a Budget of n Pollard-rho iterations.
func IterBudget(n uint64) Budget {
	return Budget{MaxIterations: n}
}

// smallPrimes is the sieve of primes below trialDivisionBound, built once.
var smallPrimes = sievePrimes(trialDivisionBound)

func sievePrimes(bound int) []int64 {
	composite := make([]bool, bound)
	var primes []int64
	for i := 2; i < bound; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, int64(i))
		for j := i * i; j < bound; j += i {
			composite[j] = true
		}
	}
	return primes
}

// Factor attempts to split n into two primes p*q within the given budget.
//
// The result's Found field distinguishes success from budget exhaustion;
// both are valid outcomes. Errors are reserved for invalid inputs (prime
// or non-semiprime n) and internal invariant violations.
func Factor(n *big.Int, budget Budget) (qkemsim.FactorizationResult, error) {
	start := time.Now()
	result := qkemsim.FactorizationResult{}

	if n.Cmp(big.NewInt(4)) < 0 {
		return result, ErrNotComposite
	}
	if numtheory.IsProbablePrime(n, primalityRounds) {
		return result, ErrNotComposite
	}

	// Phase 1: strip small factors cheaply.
	if f := trialDivide(n); f != nil {
		return acceptFactor(n, f, 0, start)
	}

	// Phase 2: Pollard's rho restarts until a factor appears or the
	// budget runs out.
	factor, attempts := pollardRho(n, budget)
	result.Attempts = attempts
	result.Elapsed = time.Since(start)
	if factor == nil {
		return result, nil // budget exhausted: expected outcome
	}
	return acceptFactor(n, factor, attempts, start)
}

// acceptFactor validates a candidate non-trivial factor and assembles the
// success result. Both factors must be probable primes and multiply back
// to n; the product equality is a hard correctness gate.
func acceptFactor(n, f *big.Int, attempts uint64, start time.Time) (qkemsim.FactorizationResult, error) {
	result := qkemsim.FactorizationResult{Attempts: attempts}

	cofactor := new(big.Int)
	rem := new(big.Int)
	cofactor.QuoRem(n, f, rem)
	if rem.Sign() != 0 {
		return result, ErrFactorInvariant
	}

	check := new(big.Int).Mul(f, cofactor)
	if check.Cmp(n) != 0 {
		return result, ErrFactorInvariant
	}

	if !numtheory.IsProbablePrime(f, primalityRounds) || !numtheory.IsProbablePrime(cofactor, primalityRounds) {
		return result, ErrNotSemiprime
	}

	result.P = f
	result.Q = cofactor
	result.Found = true
	result.Elapsed = time.Since(start)
	return result, nil
}

// trialDivide returns the smallest prime factor of n below the trial
// division bound, or nil if none divides n.
func trialDivide(n *big.Int) *big.Int {
	rem := new(big.Int)
	for _, p := range smallPrimes {
		bp := big.NewInt(p)
		if rem.Mod(n, bp).Sign() == 0 {
			if n.Cmp(bp) > 0 {
				return bp
			}
			return nil
		}
	}
	return nil
}

// pollardRho searches for a non-trivial factor of n with Floyd cycle
// detection on f(x) = x^2 + c mod n, restarting with a fresh c whenever a
// cycle collapses (gcd == n). Independent restarts run across workers;
// the shared iteration counter enforces the budget within a bounded
// overshoot regardless of scheduling.
func pollardRho(n *big.Int, budget Budget) (*big.Int, uint64) {
	var iterations atomic.Uint64
	var found atomic.Bool
	var mu sync.Mutex
	var factor *big.Int

	workers := runtime.GOMAXPROCS(0)
	if workers > 4 {
		workers = 4
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !found.Load() && iterations.Load() < budget.MaxIterations {
				f := rhoRound(n, budget, &iterations, &found)
				if f != nil {
					mu.Lock()
					if factor == nil {
						factor = f
					}
					mu.Unlock()
					found.Store(true)
					return
				}
			}
		}()
	}
	wg.Wait()

	return factor, iterations.Load()
}

// rhoRound runs one rho restart with a fresh random polynomial constant.
// Returns a non-trivial factor, or nil on cycle failure or budget
// exhaustion.
func rhoRound(n *big.Int, budget Budget, iterations *atomic.Uint64, found *atomic.Bool) *big.Int {
	c, err := randomResidue(n)
	if err != nil {
		return nil
	}
	x, err := randomResidue(n)
	if err != nil {
		return nil
	}
	y := new(big.Int).Set(x)

	step := func(v *big.Int) {
		v.Mul(v, v)
		v.Add(v, c)
		v.Mod(v, n)
	}

	diff := new(big.Int)
	for {
		for i := 0; i < budgetCheckInterval; i++ {
			step(x)
			step(y)
			step(y)

			diff.Sub(x, y)
			diff.Abs(diff)
			if diff.Sign() == 0 {
				// Cycle collapsed; restart with a new constant.
				iterations.Add(uint64(i + 1))
				return nil
			}
			d := numtheory.GCD(diff, n)
			if d.Cmp(big.NewInt(1)) > 0 {
				iterations.Add(uint64(i + 1))
				if d.Cmp(n) == 0 {
					return nil // degenerate cycle, restart
				}
				return d
			}
		}
		iterations.Add(budgetCheckInterval)
		if found.Load() || iterations.Load() >= budget.MaxIterations {
			return nil
		}
	}
}

// randomResidue samples a uniform integer in [1, n-1] from the secure
// entropy source.
func randomResidue(n *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(n, big.NewInt(1))
	byteLen := (span.BitLen() + 7) / 8
	for {
		buf, err := utils.SecureRandomBytes(byteLen)
		if err != nil {
			return nil, err
		}
		v := new(big.Int).SetBytes(buf)
		if v.Sign() > 0 && v.Cmp(n) < 0 {
			return v, nil
		}
	}
}

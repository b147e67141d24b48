package qkemsim

import (
	"math/big"
	"time"
)

// =============================================================================
// Parameter Types
// =============================================================================

// RSAParams contains parameters for RSA-KEM key generation.
type RSAParams struct {
	Bits int   `json:"bits"` // Modulus bit length
	E    int64 `json:"e"`    // Public exponent
}

// LatticeParams contains parameters for the lattice (module-LWE) KEM.
type LatticeParams struct {
	Name       string `json:"name"`        // Parameter set name
	Degree     int    `json:"degree"`      // Ring degree (power of two)
	K          int    `json:"k"`           // Module rank
	Q          int    `json:"q"`           // Ring modulus (prime)
	Eta        int    `json:"eta"`         // Centered binomial noise parameter
	SecretSize int    `json:"secret_size"` // Shared secret length in bytes
}

// =============================================================================
// RSA Key Types
// =============================================================================

// RSAPublicKey is the public half of an RSA key pair: the modulus n and
// public exponent e. This is everything an observer on the wire can see.
type RSAPublicKey struct {
	N *big.Int
	E *big.Int
}

// RSAPrivateKey is the private half. P and Q are retained for CRT
// decapsulation; they never leave the legitimate party.
type RSAPrivateKey struct {
	N *big.Int
	D *big.Int
	P *big.Int
	Q *big.Int
}

// RSAKeyPair contains both halves of an RSA key pair.
type RSAKeyPair struct {
	PublicKey RSAPublicKey
	SecretKey RSAPrivateKey
}

// EncapsulatedSecret is the result of RSA-KEM encapsulation. Only the
// Ciphertext crosses the wire; the Secret exists at the encapsulating and
// (successfully) decapsulating parties.
type EncapsulatedSecret struct {
	Ciphertext *big.Int
	Secret     []byte
}

// =============================================================================
// Factorization Types
// =============================================================================

// FactorizationResult reports the outcome of a bounded factoring run.
// Found=false means the effort budget was exhausted before a factor
// appeared; for realistically sized moduli this is the expected outcome,
// not an error.
type FactorizationResult struct {
	P        *big.Int
	Q        *big.Int
	Found    bool
	Attempts uint64
	Elapsed  time.Duration
}

// =============================================================================
// Lattice Key Types
// =============================================================================

// RingElement is a polynomial in Z_q[x]/(x^degree + 1), stored as its
// coefficient vector. Invariant: length equals the ring degree and every
// coefficient is a canonical residue in [0, q).
type RingElement []int32

// LatticePublicKey is the public key (A, t) with A represented by the
// public seed it is expanded from. The seed is reproducible, not secret.
type LatticePublicKey struct {
	Seed   []byte
	T      []RingElement
	Params LatticeParams
}

// LatticeSecretKey is the secret vector s. Seed is retained so tests and
// the CLI can regenerate the key pair deterministically.
type LatticeSecretKey struct {
	S    []RingElement
	Seed []byte
}

// LatticeKeyPair contains both halves of a lattice key pair.
type LatticeKeyPair struct {
	PublicKey LatticePublicKey
	SecretKey LatticeSecretKey
}

// LatticeCiphertext is the pair (u, v) produced by encapsulation.
type LatticeCiphertext struct {
	U []RingElement
	V RingElement
}

// LatticeEncapsulation contains the result of lattice KEM encapsulation.
type LatticeEncapsulation struct {
	SharedSecret []byte
	Ciphertext   LatticeCiphertext
}

// LatticeEncryptedMessage contains a KEM+DEM encrypted payload.
type LatticeEncryptedMessage struct {
	Ciphertext LatticeCiphertext
	Encrypted  []byte
	Nonce      []byte
}

// =============================================================================
// Attack Types
// =============================================================================

// AttackTarget identifies which KEM an attack was pointed at.
type AttackTarget string

const (
	TargetRSA     AttackTarget = "rsa"
	TargetLattice AttackTarget = "lattice"
)

// VerdictReason is a human-agnostic reason code for an attack outcome.
type VerdictReason string

const (
	// ReasonFactored: the modulus was factored and the secret recovered.
	ReasonFactored VerdictReason = "factored"
	// ReasonBudgetExhausted: the effort budget ran out before a factor
	// appeared. Expected for realistically sized moduli.
	ReasonBudgetExhausted VerdictReason = "budget_exhausted"
	// ReasonNotApplicable: the target has no factorization problem to
	// attack. Deterministic for the lattice KEM.
	ReasonNotApplicable VerdictReason = "not_applicable"
)

// AttackVerdict is the immutable outcome of one attack invocation.
// RecoveredSecret is nil unless Succeeded.
type AttackVerdict struct {
	Target          AttackTarget  `json:"target"`
	Succeeded       bool          `json:"succeeded"`
	RecoveredSecret []byte        `json:"recovered_secret,omitempty"`
	Reason          VerdictReason `json:"reason"`
	Attempts        uint64        `json:"attempts"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

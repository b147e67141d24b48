// Package qkemsim simulates the lifecycle of public-key key encapsulation
// under two regimes: a classically secure but quantum-vulnerable RSA-KEM,
// and a lattice-based (ML-KEM/Kyber-style) KEM whose algebraic structure
// resists the factoring attack that breaks RSA.
//
// The package models the "harvest now, decrypt later" adversary: an
// attacker that records public keys and ciphertexts today and attempts to
// recover the encapsulated secrets once sufficient factoring capability
// (here, a budget-bounded classical routine standing in for a quantum
// computer) becomes available.
//
// WARNING: this is a pedagogical simulator, not a production cryptographic
// library. It makes no attempt to resist timing or other side channels,
// and its factoring routine is sized for demo moduli only.
package qkemsim

// Re-exported API summary. Users typically import the sub-packages
// directly for more control.
//
// RSA pipeline:
//   - rsakem.Generate(params)        - generate an RSA key pair
//   - rsakem.Encapsulate(pk)         - shared secret + ciphertext
//   - rsakem.Decapsulate(sk, ct)     - recover the shared secret
//
// Lattice pipeline:
//   - lattice.Generate(params)       - generate a lattice key pair
//   - lattice.Encapsulate(pk)        - shared secret + ciphertext
//   - lattice.Decapsulate(sk, ct)    - recover the shared secret
//
// Adversary:
//   - attack.Engine.AttackRSA        - factor-and-decapsulate attack
//   - attack.Engine.AttackLattice    - deterministic not-applicable verdict
//   - compare.Run                    - side-by-side verdict pair
//
// Parameters:
//   - core.RSA512Params, core.RSAToyParams
//   - core.Lat128Params, core.Lat256Params

// Version of the qkemsim Go implementation.
const Version = "1.0.0"

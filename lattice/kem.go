// Package lattice implements the quantum-resistant half of the
// simulation: a Kyber-style module-LWE key encapsulation mechanism over
// the negacyclic ring Z_q[x]/(x^deg + 1).
//
// There is no modulus to factor anywhere in this scheme; recovering the
// secret vector from (A, t) is a noisy-linear-system problem that the
// factoring attack cannot touch.
package lattice

import (
	"errors"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/core"
	"github.com/kemlab/qkemsim-go/utils"
)

const (
	DomainMatrix    = "qkemsim-lat-matrix-v1"
	DomainSecret    = "qkemsim-lat-secret-v1"
	DomainError     = "qkemsim-lat-error-v1"
	DomainMessage   = "qkemsim-lat-msg-v1"
	DomainEphemeral = "qkemsim-lat-ephemeral-v1"
	DomainError1    = "qkemsim-lat-error1-v1"
	DomainError2    = "qkemsim-lat-error2-v1"
	DomainEncKey    = "qkemsim-lat-enc-key-v1"
	DomainNonce     = "qkemsim-lat-nonce-v1"
)

var (
	// ErrShortSeed indicates a key generation seed below 32 bytes.
	ErrShortSeed = errors.New("seed must be at least 32 bytes")

	// ErrShortCoins indicates encapsulation randomness below 32 bytes.
	ErrShortCoins = errors.New("encapsulation coins must be at least 32 bytes")

	// ErrMalformedCiphertext indicates a ciphertext whose shape does not
	// match the key's parameters.
	ErrMalformedCiphertext = errors.New("ciphertext shape does not match parameters")

	// ErrAuthFailed indicates a KEM+DEM authentication tag mismatch.
	ErrAuthFailed = errors.New("authentication failed")
)

// Generate creates a lattice key pair with a fresh random seed.
func Generate(params qkemsim.LatticeParams) (*qkemsim.LatticeKeyPair, error) {
	seed, err := utils.SecureRandomBytes(32)
	if err != nil {
		return nil, err
	}
	kp, err := GenerateFromSeed(params, seed)
	utils.Zeroize(seed)
	return kp, err
}

// GenerateFromSeed generates a deterministic key pair from a seed.
//
// The matrix A is expanded from a one-way hash of the seed; that hash is
// published in the public key, so A is reproducible without being stored
// while the secret-sampling seeds stay hidden. The secret vector s and
// the error vector e come from the centered binomial distribution, and
// t = A*s + e.
func GenerateFromSeed(params qkemsim.LatticeParams, seed []byte) (*qkemsim.LatticeKeyPair, error) {
	if err := core.ValidateLatticeParams(params); err != nil {
		return nil, err
	}
	if len(seed) < 32 {
		return nil, ErrShortSeed
	}

	matrixSeed := utils.HashWithDomain(DomainMatrix, seed)
	secretSeed := utils.HashWithDomain(DomainSecret, seed)
	errorSeed := utils.HashWithDomain(DomainError, seed)
	defer func() {
		utils.Zeroize(secretSeed)
		utils.Zeroize(errorSeed)
	}()

	A := expandMatrix(matrixSeed, params)
	s := sampleCBDVector(secretSeed, params.K, params)
	e := sampleCBDVector(errorSeed, params.K, params)

	t := make([]qkemsim.RingElement, params.K)
	for i := 0; i < params.K; i++ {
		As := dotProduct(A[i], s, params.Degree, params.Q)
		t[i] = polyAdd(As, e[i], params.Q)
	}

	return &qkemsim.LatticeKeyPair{
		PublicKey: qkemsim.LatticePublicKey{
			Seed:   matrixSeed,
			T:      t,
			Params: params,
		},
		SecretKey: qkemsim.LatticeSecretKey{
			S:    s,
			Seed: append([]byte{}, seed...),
		},
	}, nil
}

// Encapsulate generates a fresh shared secret and its ciphertext under
// the recipient's public key.
func Encapsulate(pk *qkemsim.LatticePublicKey) (*qkemsim.LatticeEncapsulation, error) {
	coins, err := utils.SecureRandomBytes(32)
	if err != nil {
		return nil, err
	}
	result, err := EncapsulateDeterministic(pk, coins)
	utils.Zeroize(coins)
	return result, err
}

// EncapsulateDeterministic performs encapsulation with caller-supplied
// randomness. The shared secret and every ephemeral sample derive from
// the coins with domain separation, so tests can replay an exchange.
//
//	u = A^T * r + e1
//	v = t^T * r + e2 + encode(secret)
func EncapsulateDeterministic(pk *qkemsim.LatticePublicKey, coins []byte) (*qkemsim.LatticeEncapsulation, error) {
	if len(coins) < 32 {
		return nil, ErrShortCoins
	}
	params := pk.Params

	secret := utils.Shake256WithDomain(DomainMessage, coins, params.SecretSize)

	rSeed := utils.HashWithDomain(DomainEphemeral, coins)
	e1Seed := utils.HashWithDomain(DomainError1, coins)
	e2Seed := utils.HashWithDomain(DomainError2, coins)
	defer func() {
		utils.Zeroize(rSeed)
		utils.Zeroize(e1Seed)
		utils.Zeroize(e2Seed)
	}()

	A := expandMatrix(pk.Seed, params)
	At := transpose(A)
	r := sampleCBDVector(rSeed, params.K, params)
	e1 := sampleCBDVector(e1Seed, params.K, params)
	e2 := sampleCBDPoly(e2Seed, 0, params.Degree, params.Eta, params.Q)

	u := make([]qkemsim.RingElement, params.K)
	for i := 0; i < params.K; i++ {
		Atr := dotProduct(At[i], r, params.Degree, params.Q)
		u[i] = polyAdd(Atr, e1[i], params.Q)
	}

	tTr := dotProduct(pk.T, r, params.Degree, params.Q)
	v := polyAdd(tTr, e2, params.Q)
	v = polyAdd(v, encodeMessage(secret, params.Degree, params.Q), params.Q)

	return &qkemsim.LatticeEncapsulation{
		SharedSecret: secret,
		Ciphertext:   qkemsim.LatticeCiphertext{U: u, V: v},
	}, nil
}

// Decapsulate recovers the shared secret: m' = v - s^T * u, decoded by
// rounding each coefficient to the nearer message symbol. Correctness
// rests on the decode-margin invariant enforced by the parameter
// validation.
func Decapsulate(sk *qkemsim.LatticeSecretKey, pk *qkemsim.LatticePublicKey, ct *qkemsim.LatticeCiphertext) ([]byte, error) {
	params := pk.Params
	if len(ct.U) != params.K || len(ct.V) != params.Degree {
		return nil, ErrMalformedCiphertext
	}
	for _, u := range ct.U {
		if len(u) != params.Degree {
			return nil, ErrMalformedCiphertext
		}
	}

	sTu := dotProduct(sk.S, ct.U, params.Degree, params.Q)
	decrypted := polySub(ct.V, sTu, params.Q)

	secret := decodeMessage(decrypted, params.Q, params.SecretSize)
	utils.ZeroizeInt32(decrypted)
	return secret, nil
}

// Encrypt encrypts a message using KEM+DEM: encapsulate a shared secret,
// then apply a SHAKE keystream with a SHA3 authentication tag.
func Encrypt(pk *qkemsim.LatticePublicKey, plaintext []byte) (*qkemsim.LatticeEncryptedMessage, error) {
	if len(plaintext) > utils.MaxMessageSize {
		return nil, errors.New("message exceeds maximum allowed size")
	}

	enc, err := Encapsulate(pk)
	if err != nil {
		return nil, err
	}

	encKey := utils.Shake256(utils.HashWithDomain(DomainEncKey, enc.SharedSecret), 32)
	nonce := utils.Shake256(utils.HashWithDomain(DomainNonce, enc.SharedSecret), 12)

	keystream := utils.Shake256(utils.HashConcat(encKey, nonce), len(plaintext))
	encrypted := make([]byte, len(plaintext)+16)
	for i := 0; i < len(plaintext); i++ {
		encrypted[i] = plaintext[i] ^ keystream[i]
	}
	tag := utils.SHA3256(utils.HashConcat(encKey, plaintext))
	copy(encrypted[len(plaintext):], tag[:16])

	utils.Zeroize(encKey)
	utils.Zeroize(keystream)

	return &qkemsim.LatticeEncryptedMessage{
		Ciphertext: enc.Ciphertext,
		Encrypted:  encrypted,
		Nonce:      nonce,
	}, nil
}

// Decrypt decapsulates and decrypts a KEM+DEM message, verifying the
// authentication tag before returning the plaintext.
func Decrypt(sk *qkemsim.LatticeSecretKey, pk *qkemsim.LatticePublicKey, em *qkemsim.LatticeEncryptedMessage) ([]byte, error) {
	if len(em.Encrypted) < 16 {
		return nil, errors.New("ciphertext too short")
	}

	sharedSecret, err := Decapsulate(sk, pk, &em.Ciphertext)
	if err != nil {
		return nil, err
	}

	encKey := utils.Shake256(utils.HashWithDomain(DomainEncKey, sharedSecret), 32)

	plaintextLen := len(em.Encrypted) - 16
	keystream := utils.Shake256(utils.HashConcat(encKey, em.Nonce), plaintextLen)
	plaintext := make([]byte, plaintextLen)
	for i := 0; i < plaintextLen; i++ {
		plaintext[i] = em.Encrypted[i] ^ keystream[i]
	}

	expectedTag := utils.SHA3256(utils.HashConcat(encKey, plaintext))
	if !utils.ConstantTimeEqual(em.Encrypted[plaintextLen:], expectedTag[:16]) {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}

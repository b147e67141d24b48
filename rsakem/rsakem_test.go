package rsakem

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	qkemsim "github.com/kemlab/qkemsim-go"
)

func TestGenerateRoundTrip(t *testing.T) {
	params := qkemsim.RSAParams{Bits: 32, E: 65537}
	kp, err := Generate(params)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if kp.PublicKey.N.BitLen() != params.Bits {
		t.Errorf("modulus bit length %d, want %d", kp.PublicKey.N.BitLen(), params.Bits)
	}

	enc, err := Encapsulate(&kp.PublicKey)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if len(enc.Secret) != SecretSize {
		t.Errorf("secret length %d, want %d", len(enc.Secret), SecretSize)
	}

	secret, err := Decapsulate(&kp.SecretKey, enc.Ciphertext)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if !bytes.Equal(secret, enc.Secret) {
		t.Error("decapsulated secret does not match encapsulated secret")
	}
}

func TestKnownPrimes(t *testing.T) {
	// The textbook key: p=61, q=53, e=17 gives n=3233, d=2753.
	kp, err := NewKeyPairFromPrimes(big.NewInt(61), big.NewInt(53), big.NewInt(17))
	if err != nil {
		t.Fatalf("NewKeyPairFromPrimes failed: %v", err)
	}
	if kp.PublicKey.N.Int64() != 3233 {
		t.Errorf("n = %v, want 3233", kp.PublicKey.N)
	}
	if kp.SecretKey.D.Int64() != 2753 {
		t.Errorf("d = %v, want 2753", kp.SecretKey.D)
	}

	for i := 0; i < 50; i++ {
		enc, err := Encapsulate(&kp.PublicKey)
		if err != nil {
			t.Fatalf("Encapsulate failed: %v", err)
		}
		secret, err := Decapsulate(&kp.SecretKey, enc.Ciphertext)
		if err != nil {
			t.Fatalf("Decapsulate failed: %v", err)
		}
		if !bytes.Equal(secret, enc.Secret) {
			t.Fatal("round trip mismatch on tiny modulus")
		}
	}
}

func TestRoundTripNeverRejectsOwnSeeds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mass round trip in short mode")
	}

	// On n=3233 each seed value carries probability ~1/3231, so 10000
	// trials cover the whole range [2, n-2] with margin. Encapsulation
	// must never emit a seed that decapsulation then rejects.
	kp, err := NewKeyPairFromPrimes(big.NewInt(61), big.NewInt(53), big.NewInt(17))
	if err != nil {
		t.Fatalf("NewKeyPairFromPrimes failed: %v", err)
	}

	for i := 0; i < 10000; i++ {
		enc, err := Encapsulate(&kp.PublicKey)
		if err != nil {
			t.Fatalf("trial %d: Encapsulate failed: %v", i, err)
		}
		secret, err := Decapsulate(&kp.SecretKey, enc.Ciphertext)
		if err != nil {
			t.Fatalf("trial %d: legitimate decapsulation failed: %v", i, err)
		}
		if !bytes.Equal(secret, enc.Secret) {
			t.Fatalf("trial %d: secret mismatch", i)
		}
	}
}

func TestNewKeyPairFromPrimesErrors(t *testing.T) {
	p, q := big.NewInt(61), big.NewInt(53)

	if _, err := NewKeyPairFromPrimes(p, p, big.NewInt(17)); err == nil {
		t.Error("equal primes should be rejected")
	}
	if _, err := NewKeyPairFromPrimes(big.NewInt(15), q, big.NewInt(17)); err == nil {
		t.Error("composite input should be rejected")
	}
	// phi(3233) = 3120 is divisible by 3.
	_, err := NewKeyPairFromPrimes(p, q, big.NewInt(3))
	if !errors.Is(err, ErrExponentNotCoprime) {
		t.Errorf("got %v, want ErrExponentNotCoprime", err)
	}
}

func TestDecapsulateCiphertextRange(t *testing.T) {
	kp, err := NewKeyPairFromPrimes(big.NewInt(61), big.NewInt(53), big.NewInt(17))
	if err != nil {
		t.Fatalf("NewKeyPairFromPrimes failed: %v", err)
	}

	_, err = Decapsulate(&kp.SecretKey, big.NewInt(3233))
	if !errors.Is(err, ErrCiphertextRange) {
		t.Errorf("ciphertext == n: got %v, want ErrCiphertextRange", err)
	}
	_, err = Decapsulate(&kp.SecretKey, big.NewInt(-1))
	if !errors.Is(err, ErrCiphertextRange) {
		t.Errorf("negative ciphertext: got %v, want ErrCiphertextRange", err)
	}
}

func TestDecapsulateDecoding(t *testing.T) {
	kp, err := NewKeyPairFromPrimes(big.NewInt(61), big.NewInt(53), big.NewInt(17))
	if err != nil {
		t.Fatalf("NewKeyPairFromPrimes failed: %v", err)
	}

	// c in {0, 1} decrypts to m in {0, 1}, outside the seed range.
	for _, c := range []int64{0, 1} {
		_, err := Decapsulate(&kp.SecretKey, big.NewInt(c))
		if !errors.Is(err, ErrDecoding) {
			t.Errorf("Decapsulate(%d) = %v, want ErrDecoding", c, err)
		}
	}
}

func TestDeriveSecret(t *testing.T) {
	n := big.NewInt(3233)

	s1 := DeriveSecret(n, big.NewInt(42))
	s2 := DeriveSecret(n, big.NewInt(42))
	if !bytes.Equal(s1, s2) {
		t.Error("DeriveSecret is not deterministic")
	}
	if len(s1) != SecretSize {
		t.Errorf("secret length %d, want %d", len(s1), SecretSize)
	}

	s3 := DeriveSecret(n, big.NewInt(43))
	if bytes.Equal(s1, s3) {
		t.Error("different seeds must derive different secrets")
	}
}

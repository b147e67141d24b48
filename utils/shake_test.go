package utils

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestShake256(t *testing.T) {
	out := Shake256([]byte("input"), 64)
	if len(out) != 64 {
		t.Errorf("output length %d, want 64", len(out))
	}

	again := Shake256([]byte("input"), 64)
	if !bytes.Equal(out, again) {
		t.Error("Shake256 is not deterministic")
	}

	other := Shake256([]byte("other"), 64)
	if bytes.Equal(out, other) {
		t.Error("different inputs produced identical output")
	}

	// A longer read must extend the shorter one, not restart it.
	long := Shake256([]byte("input"), 128)
	if !bytes.Equal(long[:64], out) {
		t.Error("XOF prefix property violated")
	}
}

func TestShake256Into(t *testing.T) {
	buf := make([]byte, 48)
	Shake256Into([]byte("seed"), buf)
	if !bytes.Equal(buf, Shake256([]byte("seed"), 48)) {
		t.Error("Shake256Into disagrees with Shake256")
	}
}

func TestSHA3256KnownVector(t *testing.T) {
	// SHA3-256 of the empty string.
	want, _ := hex.DecodeString("a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a")
	if got := SHA3256(nil); !bytes.Equal(got, want) {
		t.Errorf("SHA3256(\"\") = %x", got)
	}
}

func TestHashWithDomainSeparation(t *testing.T) {
	h1 := HashWithDomain("domain-a", []byte("data"))
	h2 := HashWithDomain("domain-b", []byte("data"))
	if bytes.Equal(h1, h2) {
		t.Error("different domains produced identical hashes")
	}

	// The length prefix prevents domain/data boundary shifts.
	h3 := HashWithDomain("ab", []byte("cdata"))
	h4 := HashWithDomain("abc", []byte("data"))
	if bytes.Equal(h3, h4) {
		t.Error("boundary shift produced identical hashes")
	}
}

func TestHashWithDomainPanicsOnLongDomain(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for domain over 255 bytes")
		}
	}()
	HashWithDomain(string(make([]byte, 256)), []byte("data"))
}

func TestHashConcatBoundaries(t *testing.T) {
	h1 := HashConcat([]byte("ab"), []byte("c"))
	h2 := HashConcat([]byte("a"), []byte("bc"))
	if bytes.Equal(h1, h2) {
		t.Error("input boundary shift produced identical hashes")
	}

	h3 := HashConcat([]byte("abc"))
	if bytes.Equal(h1, h3) {
		t.Error("split vs joined inputs produced identical hashes")
	}
}

func TestShake256WithDomain(t *testing.T) {
	out := Shake256WithDomain("d", []byte("data"), 16)
	if len(out) != 16 {
		t.Errorf("output length %d, want 16", len(out))
	}
	if bytes.Equal(out, Shake256WithDomain("e", []byte("data"), 16)) {
		t.Error("different domains produced identical output")
	}
	if !bytes.Equal(out, Shake256WithDomain("d", []byte("data"), 16)) {
		t.Error("Shake256WithDomain is not deterministic")
	}
}

package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeBytes(t *testing.T) {
	data := []byte{0x00, 0x01, 0xFE, 0xFF}

	for _, format := range []string{"hex", "base64"} {
		flagFormat = format
		decoded, err := decodeBytes(encodeBytes(data))
		if err != nil {
			t.Fatalf("format %s: %v", format, err)
		}
		if !bytes.Equal(decoded, data) {
			t.Errorf("format %s: round trip mismatch", format)
		}
	}
	flagFormat = "hex"

	if _, err := decodeBytes("not a valid hex value"); err == nil {
		t.Error("invalid encoding accepted")
	}
}

func TestDecodeBytesHonorsFormatFlag(t *testing.T) {
	// "abcd" is valid under both encodings with different meanings; the
	// flag, not a guess, must pick the decoder.
	defer func() { flagFormat = "hex" }()

	flagFormat = "hex"
	asHex, err := decodeBytes("abcd")
	if err != nil {
		t.Fatalf("hex decode failed: %v", err)
	}
	if !bytes.Equal(asHex, []byte{0xAB, 0xCD}) {
		t.Errorf("hex decode = %x", asHex)
	}

	flagFormat = "base64"
	asB64, err := decodeBytes("abcd")
	if err != nil {
		t.Fatalf("base64 decode failed: %v", err)
	}
	if bytes.Equal(asB64, asHex) {
		t.Error("base64 format decoded as hex")
	}
	if !bytes.Equal(asB64, []byte{0x69, 0xB7, 0x1D}) {
		t.Errorf("base64 decode = %x", asB64)
	}
}

func TestLoadRSAKeyFromExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "key.json")

	flagOutput = path
	defer func() { flagOutput = "" }()
	err := writeJSON(RSAKeyPairExport{
		Bits: 12,
		N:    big.NewInt(3233).Text(16),
		E:    big.NewInt(17).Text(16),
		D:    big.NewInt(2753).Text(16),
		P:    big.NewInt(61).Text(16),
		Q:    big.NewInt(53).Text(16),
	})
	if err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}
	flagOutput = ""

	pk, sk, err := loadRSAKey(path, true)
	if err != nil {
		t.Fatalf("loadRSAKey failed: %v", err)
	}
	if pk.N.Int64() != 3233 || pk.E.Int64() != 17 {
		t.Errorf("public key %v, %v", pk.N, pk.E)
	}
	if sk.D.Int64() != 2753 || sk.P.Int64() != 61 || sk.Q.Int64() != 53 {
		t.Errorf("private key %v, %v, %v", sk.D, sk.P, sk.Q)
	}

	// Public-only load must not touch the private fields.
	pk, sk, err = loadRSAKey(path, false)
	if err != nil {
		t.Fatalf("loadRSAKey failed: %v", err)
	}
	if sk != nil {
		t.Error("public-only load returned a private key")
	}
	if pk == nil {
		t.Error("public-only load returned no public key")
	}
}

func TestLoadRSAKeyInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"n": "zzz", "e": "11"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadRSAKey(path, false); err == nil {
		t.Error("invalid modulus accepted")
	}

	if _, _, err := loadRSAKey(filepath.Join(dir, "missing.json"), false); err == nil {
		t.Error("missing file accepted")
	}
}

func TestWriteOutputStdoutAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	flagOutput = path
	defer func() { flagOutput = "" }()
	if err := writeJSON(map[string]string{"k": "v"}); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"k": "v"`)) {
		t.Errorf("unexpected output: %s", data)
	}
}

package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// RSAKeyPairExport is the JSON form of an RSA key pair. All integers are
// hex-encoded big-endian. The private fields are present because the
// simulator demonstrates the full lifecycle; treat exported files
// accordingly.
type RSAKeyPairExport struct {
	Bits      int    `json:"bits"`
	N         string `json:"n"`
	E         string `json:"e"`
	D         string `json:"d"`
	P         string `json:"p"`
	Q         string `json:"q"`
	CreatedAt string `json:"created_at"`
}

// LatticeKeyPairExport is the JSON form of a lattice key pair: the
// serialized public key plus the generation seed, which regenerates the
// secret half deterministically.
type LatticeKeyPairExport struct {
	Params    string `json:"params"`
	PublicKey string `json:"public_key"`
	Seed      string `json:"seed"`
	CreatedAt string `json:"created_at"`
}

// EncapsulationExport carries a ciphertext and the shared secret it
// encapsulates.
type EncapsulationExport struct {
	Ciphertext   string `json:"ciphertext"`
	SharedSecret string `json:"shared_secret"`
}

// EncryptedExport carries a KEM+DEM encrypted message.
type EncryptedExport struct {
	KEMCiphertext string `json:"kem_ciphertext"`
	Encrypted     string `json:"encrypted"`
	Nonce         string `json:"nonce"`
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// encodeBytes encodes raw bytes per the --format flag.
func encodeBytes(b []byte) string {
	if flagFormat == "base64" {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}

// decodeBytes decodes a string produced by encodeBytes. The encoding is
// selected by the --format flag, never guessed: strings like "abcd" are
// valid under both encodings with different meanings.
func decodeBytes(s string) ([]byte, error) {
	if flagFormat == "base64" {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 value: %w", err)
		}
		return b, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex value: %w", err)
	}
	return b, nil
}

// writeJSON marshals v with indentation and writes it to the --output
// file or stdout.
func writeJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	return writeOutput(append(out, '\n'))
}

func writeOutput(data []byte) error {
	if flagOutput != "" {
		return os.WriteFile(flagOutput, data, 0600)
	}
	_, err := os.Stdout.Write(data)
	return err
}

// readJSONFile reads and unmarshals a JSON export file.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// reportTiming prints an operation timing to stderr when --timing is set.
func reportTiming(op string, elapsed time.Duration) {
	if flagTiming {
		fmt.Fprintf(os.Stderr, "%s took: %v\n", op, elapsed)
	}
}

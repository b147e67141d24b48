package main

import (
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/rsakem"
)

func newRSACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsa",
		Short: "RSA-KEM operations (the quantum-vulnerable pipeline)",
	}
	cmd.AddCommand(newRSAKeygenCmd(), newRSAEncapCmd(), newRSADecapCmd())
	return cmd
}

func newRSAKeygenCmd() *cobra.Command {
	var bits int
	var e int64

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an RSA key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := qkemsim.RSAParams{Bits: bits, E: e}

			start := time.Now()
			kp, err := rsakem.Generate(params)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("generating key pair: %w", err)
			}
			reportTiming("Key generation", elapsed)
			logger.Info("generated RSA key pair",
				zap.Int("bits", kp.PublicKey.N.BitLen()),
				zap.Duration("elapsed", elapsed))

			return writeJSON(RSAKeyPairExport{
				Bits:      params.Bits,
				N:         kp.PublicKey.N.Text(16),
				E:         kp.PublicKey.E.Text(16),
				D:         kp.SecretKey.D.Text(16),
				P:         kp.SecretKey.P.Text(16),
				Q:         kp.SecretKey.Q.Text(16),
				CreatedAt: nowRFC3339(),
			})
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 32, "modulus bit length")
	cmd.Flags().Int64Var(&e, "e", 65537, "public exponent")
	return cmd
}

func newRSAEncapCmd() *cobra.Command {
	var keyFile string

	cmd := &cobra.Command{
		Use:   "encapsulate",
		Short: "Encapsulate a fresh shared secret under an RSA public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, _, err := loadRSAKey(keyFile, false)
			if err != nil {
				return err
			}

			start := time.Now()
			enc, err := rsakem.Encapsulate(pk)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("encapsulating: %w", err)
			}
			reportTiming("Encapsulation", elapsed)

			return writeJSON(EncapsulationExport{
				Ciphertext:   enc.Ciphertext.Text(16),
				SharedSecret: encodeBytes(enc.Secret),
			})
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", "", "key pair JSON file (required)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newRSADecapCmd() *cobra.Command {
	var keyFile, ciphertextHex string

	cmd := &cobra.Command{
		Use:   "decapsulate",
		Short: "Recover the shared secret from an RSA ciphertext",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sk, err := loadRSAKey(keyFile, true)
			if err != nil {
				return err
			}
			ct, ok := new(big.Int).SetString(ciphertextHex, 16)
			if !ok {
				return fmt.Errorf("invalid ciphertext hex")
			}

			start := time.Now()
			secret, err := rsakem.Decapsulate(sk, ct)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("decapsulating: %w", err)
			}
			reportTiming("Decapsulation", elapsed)

			return writeJSON(map[string]string{
				"shared_secret": encodeBytes(secret),
			})
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", "", "key pair JSON file (required)")
	cmd.Flags().StringVar(&ciphertextHex, "ciphertext", "", "ciphertext as hex (required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("ciphertext")
	return cmd
}

// loadRSAKey loads an exported key pair. The secret half is parsed only
// when needSecret is set, so encapsulation works with public-only files.
func loadRSAKey(path string, needSecret bool) (*qkemsim.RSAPublicKey, *qkemsim.RSAPrivateKey, error) {
	var export RSAKeyPairExport
	if err := readJSONFile(path, &export); err != nil {
		return nil, nil, fmt.Errorf("loading key: %w", err)
	}

	n, ok := new(big.Int).SetString(export.N, 16)
	if !ok {
		return nil, nil, fmt.Errorf("invalid modulus in %s", path)
	}
	e, ok := new(big.Int).SetString(export.E, 16)
	if !ok {
		return nil, nil, fmt.Errorf("invalid exponent in %s", path)
	}
	pk := &qkemsim.RSAPublicKey{N: n, E: e}

	if !needSecret {
		return pk, nil, nil
	}

	d, ok1 := new(big.Int).SetString(export.D, 16)
	p, ok2 := new(big.Int).SetString(export.P, 16)
	q, ok3 := new(big.Int).SetString(export.Q, 16)
	if !ok1 || !ok2 || !ok3 {
		return nil, nil, fmt.Errorf("invalid private components in %s", path)
	}
	return pk, &qkemsim.RSAPrivateKey{N: n, D: d, P: p, Q: q}, nil
}

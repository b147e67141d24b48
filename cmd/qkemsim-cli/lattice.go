package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/core"
	"github.com/kemlab/qkemsim-go/lattice"
)

func newLatticeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Lattice KEM operations (the quantum-resistant pipeline)",
	}
	cmd.AddCommand(
		newLatticeKeygenCmd(),
		newLatticeEncapCmd(),
		newLatticeDecapCmd(),
		newLatticeEncryptCmd(),
		newLatticeDecryptCmd(),
	)
	return cmd
}

func newLatticeKeygenCmd() *cobra.Command {
	var paramsName string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a lattice key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := core.GetLatticeParams(paramsName)
			if err != nil {
				return err
			}

			start := time.Now()
			kp, err := lattice.Generate(params)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("generating key pair: %w", err)
			}
			reportTiming("Key generation", elapsed)

			pkBytes := lattice.SerializePublicKey(&kp.PublicKey)
			logger.Info("generated lattice key pair",
				zap.String("params", params.Name),
				zap.Int("public_key_bytes", len(pkBytes)),
				zap.Duration("elapsed", elapsed))

			return writeJSON(LatticeKeyPairExport{
				Params:    params.Name,
				PublicKey: encodeBytes(pkBytes),
				Seed:      encodeBytes(kp.SecretKey.Seed),
				CreatedAt: nowRFC3339(),
			})
		},
	}
	cmd.Flags().StringVar(&paramsName, "params", core.Lat256Params.Name, "parameter set: LAT-128 or LAT-256")
	return cmd
}

func newLatticeEncapCmd() *cobra.Command {
	var keyFile string

	cmd := &cobra.Command{
		Use:   "encapsulate",
		Short: "Encapsulate a fresh shared secret under a lattice public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, _, err := loadLatticeKey(keyFile, false)
			if err != nil {
				return err
			}

			start := time.Now()
			enc, err := lattice.Encapsulate(pk)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("encapsulating: %w", err)
			}
			reportTiming("Encapsulation", elapsed)

			return writeJSON(EncapsulationExport{
				Ciphertext:   encodeBytes(lattice.SerializeCiphertext(&enc.Ciphertext, pk.Params)),
				SharedSecret: encodeBytes(enc.SharedSecret),
			})
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", "", "key pair JSON file (required)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newLatticeDecapCmd() *cobra.Command {
	var keyFile, ciphertext string

	cmd := &cobra.Command{
		Use:   "decapsulate",
		Short: "Recover the shared secret from a lattice ciphertext",
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, sk, err := loadLatticeKey(keyFile, true)
			if err != nil {
				return err
			}
			ctBytes, err := decodeBytes(ciphertext)
			if err != nil {
				return fmt.Errorf("invalid ciphertext: %w", err)
			}
			ct, err := lattice.DeserializeCiphertext(ctBytes, pk.Params)
			if err != nil {
				return fmt.Errorf("parsing ciphertext: %w", err)
			}

			start := time.Now()
			secret, err := lattice.Decapsulate(sk, pk, ct)
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
	cmd.Flags().StringVar(&ciphertext, "ciphertext", "", "serialized ciphertext (required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("ciphertext")
	return cmd
}

func newLatticeEncryptCmd() *cobra.Command {
	var keyFile, message, inputFile string

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message with KEM+DEM hybrid encryption",
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, _, err := loadLatticeKey(keyFile, false)
			if err != nil {
				return err
			}
			plaintext, err := readMessage(message, inputFile)
			if err != nil {
				return err
			}

			start := time.Now()
			em, err := lattice.Encrypt(pk, plaintext)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("encrypting: %w", err)
			}
			reportTiming("Encryption", elapsed)

			return writeJSON(EncryptedExport{
				KEMCiphertext: encodeBytes(lattice.SerializeCiphertext(&em.Ciphertext, pk.Params)),
				Encrypted:     encodeBytes(em.Encrypted),
				Nonce:         encodeBytes(em.Nonce),
			})
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", "", "key pair JSON file (required)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "message text (default: stdin)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "message file")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newLatticeDecryptCmd() *cobra.Command {
	var keyFile, encFile string

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a KEM+DEM encrypted message",
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, sk, err := loadLatticeKey(keyFile, true)
			if err != nil {
				return err
			}

			var export EncryptedExport
			if err := readJSONFile(encFile, &export); err != nil {
				return fmt.Errorf("loading encrypted message: %w", err)
			}
			ctBytes, err := decodeBytes(export.KEMCiphertext)
			if err != nil {
				return fmt.Errorf("invalid kem_ciphertext: %w", err)
			}
			ct, err := lattice.DeserializeCiphertext(ctBytes, pk.Params)
			if err != nil {
				return fmt.Errorf("parsing ciphertext: %w", err)
			}
			encrypted, err := decodeBytes(export.Encrypted)
			if err != nil {
				return fmt.Errorf("invalid encrypted payload: %w", err)
			}
			nonce, err := decodeBytes(export.Nonce)
			if err != nil {
				return fmt.Errorf("invalid nonce: %w", err)
			}

			start := time.Now()
			plaintext, err := lattice.Decrypt(sk, pk, &qkemsim.LatticeEncryptedMessage{
				Ciphertext: *ct,
				Encrypted:  encrypted,
				Nonce:      nonce,
			})
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("decrypting: %w", err)
			}
			reportTiming("Decryption", elapsed)

			return writeOutput(plaintext)
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", "", "key pair JSON file (required)")
	cmd.Flags().StringVar(&encFile, "ciphertext", "", "encrypted message JSON file (required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("ciphertext")
	return cmd
}

// loadLatticeKey loads an exported lattice key pair. The secret half is
// regenerated from the stored seed only when needSecret is set.
func loadLatticeKey(path string, needSecret bool) (*qkemsim.LatticePublicKey, *qkemsim.LatticeSecretKey, error) {
	var export LatticeKeyPairExport
	if err := readJSONFile(path, &export); err != nil {
		return nil, nil, fmt.Errorf("loading key: %w", err)
	}

	pkBytes, err := decodeBytes(export.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid public key encoding: %w", err)
	}
	pk, err := lattice.DeserializePublicKey(pkBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing public key: %w", err)
	}

	if !needSecret {
		return pk, nil, nil
	}

	seed, err := decodeBytes(export.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid seed encoding: %w", err)
	}
	kp, err := lattice.GenerateFromSeed(pk.Params, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("regenerating key pair from seed: %w", err)
	}
	return pk, &kp.SecretKey, nil
}

// readMessage resolves the message from flag, file, or stdin.
func readMessage(message, inputFile string) ([]byte, error) {
	if message != "" {
		return []byte(message), nil
	}
	if inputFile != "" {
		return os.ReadFile(inputFile)
	}
	return io.ReadAll(os.Stdin)
}

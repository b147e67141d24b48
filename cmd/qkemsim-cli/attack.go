package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kemlab/qkemsim-go/attack"
	"github.com/kemlab/qkemsim-go/factor"
)

func newAttackCmd() *cobra.Command {
	var keyFile, ciphertextHex string
	var budget uint64

	cmd := &cobra.Command{
		Use:   "attack",
		Short: "Attack a harvested RSA ciphertext with a bounded factorizer",
		Long: `Attack reads only the public half of the key file, factors the
modulus within the effort budget, and attempts to recover the
encapsulated secret the way a future adversary would.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, _, err := loadRSAKey(keyFile, false)
			if err != nil {
				return err
			}
			ct, ok := new(big.Int).SetString(ciphertextHex, 16)
			if !ok {
				return fmt.Errorf("invalid ciphertext hex")
			}

			logger.Info("starting attack",
				zap.Int("modulus_bits", pk.N.BitLen()),
				zap.Uint64("budget", budget))

			engine := attack.NewEngine(factor.IterBudget(budget))
			verdict, err := engine.AttackRSA(pk, ct)
			if err != nil {
				return fmt.Errorf("attack: %w", err)
			}

			logger.Info("attack finished",
				zap.Bool("succeeded", verdict.Succeeded),
				zap.String("reason", string(verdict.Reason)),
				zap.Uint64("attempts", verdict.Attempts),
				zap.Duration("elapsed", verdict.Elapsed))

			return writeJSON(verdict)
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", "", "target key JSON file; only public fields are read (required)")
	cmd.Flags().StringVar(&ciphertextHex, "ciphertext", "", "harvested ciphertext as hex (required)")
	cmd.Flags().Uint64Var(&budget, "budget", factor.DefaultMaxIterations, "factoring effort budget in rho iterations")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("ciphertext")
	return cmd
}

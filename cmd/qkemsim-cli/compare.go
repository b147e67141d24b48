package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/compare"
	"github.com/kemlab/qkemsim-go/core"
	"github.com/kemlab/qkemsim-go/factor"
)

func newCompareCmd() *cobra.Command {
	var rsaBits int
	var rsaE int64
	var latticeName string
	var budget uint64

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run both KEM lifecycles against the same adversary",
		Long: `Compare generates an RSA key pair and a lattice key pair, encapsulates
under both, verifies the legitimate decapsulations, then hands the
public artifacts to a bounded factoring adversary and reports the
side-by-side verdicts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			latticeParams, err := core.GetLatticeParams(latticeName)
			if err != nil {
				return err
			}
			cfg := compare.Config{
				RSA:     qkemsim.RSAParams{Bits: rsaBits, E: rsaE},
				Lattice: latticeParams,
				Budget:  factor.IterBudget(budget),
			}

			logger.Info("starting comparison run",
				zap.Int("rsa_bits", cfg.RSA.Bits),
				zap.String("lattice", cfg.Lattice.Name),
				zap.Uint64("budget", budget))

			result, err := compare.Run(cfg)
			if err != nil {
				return fmt.Errorf("comparison run: %w", err)
			}

			logger.Info("comparison finished",
				zap.String("run_id", result.RunID.String()),
				zap.Bool("rsa_compromised", result.RSACompromised),
				zap.Bool("lattice_compromised", result.LatticeCompromised),
				zap.Duration("elapsed", result.Elapsed))

			return writeJSON(result)
		},
	}
	cmd.Flags().IntVar(&rsaBits, "rsa-bits", core.RSAToyParams.Bits, "RSA modulus bit length")
	cmd.Flags().Int64Var(&rsaE, "rsa-e", core.RSAToyParams.E, "RSA public exponent")
	cmd.Flags().StringVar(&latticeName, "lattice", core.Lat128Params.Name, "lattice parameter set: LAT-128 or LAT-256")
	cmd.Flags().Uint64Var(&budget, "budget", factor.DefaultMaxIterations, "factoring effort budget in rho iterations")
	return cmd
}

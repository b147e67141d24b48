// Package main provides the qkemsim-cli command line interface for
// running the quantum-threat KEM lifecycle simulations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/utils"
)

const appName = "qkemsim-cli"

var (
	logger *zap.Logger

	flagOutput  string
	flagFormat  string
	flagTiming  bool
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Quantum-threat KEM lifecycle simulator",
		Long: appName + ` simulates public-key encapsulation under two regimes:
an RSA-KEM that falls to a budget-bounded factoring attack, and a
lattice KEM the same attack cannot touch.

This is a pedagogical tool, not a production cryptographic library.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.CheckEntropySource(); err != nil {
				return err
			}
			var err error
			if flagVerbose {
				logger, err = zap.NewDevelopment()
			} else {
				cfg := zap.NewProductionConfig()
				cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
				logger, err = cfg.Build()
			}
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")
	root.PersistentFlags().StringVarP(&flagFormat, "format", "f", "hex", "byte encoding: hex or base64")
	root.PersistentFlags().BoolVar(&flagTiming, "timing", false, "report operation timings on stderr")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		newVersionCmd(),
		newRSACmd(),
		newLatticeCmd(),
		newAttackCmd(),
		newCompareCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, qkemsim.Version)
		},
	}
}

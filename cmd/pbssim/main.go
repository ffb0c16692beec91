// Command pbssim drives the PBS/POS auction simulator: it wires a node
// graph from a scenario recipe, steps the chain for the configured
// length, and writes the three result CSVs described in spec.md §6.
package main

import (
	"fmt"
	"os"

	"github.com/flashbots/go-utils/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mev-research/pbs-sim/config"
)

var (
	v      = viper.New()
	logger *zap.Logger

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "pbssim",
	Short: "PBS/POS MEV auction simulator",
	Long: `pbssim runs a discrete-event simulation of Proposer-Builder
Separation block production against a vanilla proposer-only baseline,
with a sandwich-attacking adversary population, and reports the
resulting revenue split between proposers and builders.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger()
		return nil
	},
}

func init() {
	cobra.OnInitialize(loadConfigFile)

	defaults := config.Default()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "scenario recipe YAML file")
	rootCmd.PersistentFlags().Bool("debug", os.Getenv("DEBUG") == "1", "print debug output")
	rootCmd.PersistentFlags().Bool("log-prod", os.Getenv("LOG_PROD") == "1", "log in production mode (json)")
	rootCmd.PersistentFlags().Int("chain-length", defaults.ChainLength, "number of slots to simulate")
	rootCmd.PersistentFlags().Int("transactions-per-slot", defaults.TransactionsPerSlot, "new transactions injected per slot")
	rootCmd.PersistentFlags().Float64("mev-fraction", defaults.MEVFraction, "fraction of generated transactions carrying nonzero MEV")
	rootCmd.PersistentFlags().Int("max-block-size", defaults.MaxBlockSize, "transaction capacity of an assembled block")
	rootCmd.PersistentFlags().Int64("seed", defaults.Seed, "PRNG seed")
	rootCmd.PersistentFlags().String("random-number-file", cli.GetEnv("RANDOM_NUMBER_FILE", ""), "path to the precomputed random-number stream file")
	rootCmd.PersistentFlags().Int("num-builders", defaults.Builders.Count, "number of plain gas-maximizing builders")
	rootCmd.PersistentFlags().Int("num-attacker-builders", defaults.AttackerBuilders.Count, "number of sandwich-maximizing builders")
	rootCmd.PersistentFlags().Int("num-proposers", defaults.Proposers.Count, "number of non-building proposers")
	rootCmd.PersistentFlags().String("out-dir", cli.GetEnv("OUT_DIR", "."), "directory to write report CSVs into")
	rootCmd.PersistentFlags().String("metrics-addr", cli.GetEnv("METRICS_ADDR", ""), "address to serve /metrics on (empty disables)")

	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "failed to bind flags:", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(validateConfigCmd)
}

func initLogger() {
	debug := v.GetBool("debug")
	prod := v.GetBool("log-prod")

	if prod {
		atom := zap.NewAtomicLevel()
		if debug {
			atom.SetLevel(zap.DebugLevel)
		}
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		logger = zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(os.Stdout),
			atom,
		))
		return
	}
	logger, _ = zap.NewDevelopment()
}

func loadConfigFile() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pbssim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()
	_ = v.ReadInConfig() // absence of an auto-discovered config file is not fatal
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

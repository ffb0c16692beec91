package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	vmetrics "github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mev-research/pbs-sim/config"
	"github.com/mev-research/pbs-sim/entropyfile"
	"github.com/mev-research/pbs-sim/metrics"
	"github.com/mev-research/pbs-sim/pbs"
	"github.com/mev-research/pbs-sim/report"
)

var maxSlotsPerSecond float64

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and write the result CSVs",
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().Float64Var(&maxSlotsPerSecond, "max-slots-per-second", 0, "cap slot-stepping rate (0 disables throttling)")
}

func loadRecipe() (*config.Recipe, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromFlags(v)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	recipe, err := loadRecipe()
	if err != nil {
		logger.Fatal("failed to load scenario recipe", zap.Error(err))
	}

	stream, err := entropyfile.Load(recipe.RandomNumberFile)
	if err != nil {
		logger.Fatal("failed to load random number file", zap.Error(err))
	}

	rng := pbs.NewRandSource(recipe.Seed, stream)
	graph := buildGraph(recipe, rng, logger)

	if addr := v.GetString("metrics-addr"); addr != "" {
		go serveMetrics(addr)
	}

	chain := pbs.NewChain(graph, 110000, pbs.ChainConfig{
		MaxBlockSize:        recipe.MaxBlockSize,
		TransactionsPerSlot: recipe.TransactionsPerSlot,
		MEVFraction:         recipe.MEVFraction,
		AdaptiveInjection:   recipe.AdaptiveInjection,
	}, logger)

	winCounts := metrics.NewWinCounts()

	// A zero limit leaves the limiter unused rather than stalling every
	// Wait call: rate.Inf lets StepSlot run as fast as the CPU allows.
	limit := rate.Inf
	if maxSlotsPerSecond > 0 {
		limit = rate.Limit(maxSlotsPerSecond)
	}
	slotLimiter := rate.NewLimiter(limit, 1)
	ctx := context.Background()

	for i := 0; i < recipe.ChainLength; i++ {
		if err := slotLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("slot %d: rate limiter: %w", i, err)
		}
		if err := chain.StepSlot(); err != nil {
			var aborted *pbs.SlotAbortedError
			if errors.As(err, &aborted) {
				metrics.IncSlotsAborted()
				continue
			}
			return fmt.Errorf("slot %d: %w", i, err)
		}
		if len(chain.PBSBlocks) == 0 {
			continue
		}
		block := chain.PBSBlocks[len(chain.PBSBlocks)-1]
		metrics.IncPBSBlocksProduced()
		metrics.IncPOSBlocksProduced()
		metrics.ObserveWinningBid(block.Bid)
		metrics.ObserveWinningBlockValue(block.BlockValue)
		winCounts.Record(block.BuilderID)
	}

	logger.Info("simulation complete",
		zap.Int("slots", recipe.ChainLength),
		zap.Int("pbs_blocks", len(chain.PBSBlocks)),
		zap.Int("pos_blocks", len(chain.POSBlocks)),
	)

	return writeReports(v.GetString("out-dir"), chain)
}

func writeReports(dir string, chain *pbs.Chain) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	writers := []struct {
		name string
		fn   func(f *os.File) error
	}{
		{"blocks.csv", func(f *os.File) error { return report.WriteBlocks(f, chain.PBSBlocks) }},
		{"transactions.csv", func(f *os.File) error { return report.WriteTransactions(f, chain.PBSBlocks) }},
		{"comparison.csv", func(f *os.File) error { return report.WriteComparison(f, chain.PBSBlocks, chain.POSBlocks) }},
	}
	for _, w := range writers {
		f, err := os.Create(filepath.Join(dir, w.name))
		if err != nil {
			return fmt.Errorf("creating %s: %w", w.name, err)
		}
		err = w.fn(f)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("writing %s: %w", w.name, err)
		}
		if closeErr != nil {
			return fmt.Errorf("closing %s: %w", w.name, closeErr)
		}
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		vmetrics.WritePrometheus(w, true)
	})
	server := &http.Server{Addr: addr, Handler: mux}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", zap.Error(err))
	}
}

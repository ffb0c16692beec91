package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mev-research/pbs-sim/entropyfile"
	"github.com/mev-research/pbs-sim/pbs"
)

var (
	sweepMinBuilders int
	sweepMaxBuilders int
	sweepRepeats     int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run several builder-count scenarios and average the results",
	Long: `sweep reproduces the original driver's multi-scenario mode: for
each builder count in [min, max], runs the simulation repeats times with
ProposerAttackerBuilder nodes and averages, over the repeats, each run's
block value and bid summed across its slots.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&sweepMinBuilders, "min-builders", 2, "smallest builder count to sweep")
	sweepCmd.Flags().IntVar(&sweepMaxBuilders, "max-builders", 20, "largest builder count to sweep")
	sweepCmd.Flags().IntVar(&sweepRepeats, "repeats", 3, "repeats averaged per builder count")
}

func runSweep(cmd *cobra.Command, args []string) error {
	recipe, err := loadRecipe()
	if err != nil {
		logger.Fatal("failed to load scenario recipe", zap.Error(err))
	}

	stream, err := entropyfile.Load(recipe.RandomNumberFile)
	if err != nil {
		logger.Fatal("failed to load random number file", zap.Error(err))
	}

	out, err := os.Create("num_builder_sim.csv")
	if err != nil {
		return fmt.Errorf("creating sweep output: %w", err)
	}
	defer out.Close()
	cw := csv.NewWriter(out)
	defer cw.Flush()
	if err := cw.Write([]string{"Builder Count", "Mean Block Value", "Mean Bid"}); err != nil {
		return err
	}

	for count := sweepMinBuilders; count <= sweepMaxBuilders; count++ {
		var totalValue, totalBid float64
		connections := count - 1
		if connections > 5 {
			connections = 5
		}

		for rep := 0; rep < sweepRepeats; rep++ {
			rng := pbs.NewRandSource(recipe.Seed+int64(rep), stream)
			g := pbs.NewGraph(rng, logger)
			for i := 1; i <= count; i++ {
				g.AddProposerAttackerBuilder(int64(i), connections, 1.0, recipe.Builders.Depth, recipe.Builders.NumSimulations)
			}
			g.AddNode(11, 5, 1)
			g.AddNode(12, 5, 1)
			g.AssignNeighbours()

			chain := pbs.NewChain(g, 1, pbs.ChainConfig{
				MaxBlockSize:        recipe.MaxBlockSize,
				TransactionsPerSlot: recipe.TransactionsPerSlot,
				MEVFraction:         recipe.MEVFraction,
			}, logger)

			for i := 0; i < recipe.ChainLength; i++ {
				_ = chain.StepSlot()
			}
			for _, b := range chain.PBSBlocks {
				totalValue += b.BlockValue
				totalBid += b.Bid
			}
		}

		row := []string{
			strconv.Itoa(count),
			strconv.FormatFloat(totalValue/float64(sweepRepeats), 'f', -1, 64),
			strconv.FormatFloat(totalBid/float64(sweepRepeats), 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
		logger.Info("sweep point complete", zap.Int("builder_count", count))
	}
	return nil
}

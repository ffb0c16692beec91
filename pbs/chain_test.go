package pbs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newChainForTest(g *Graph, cfg ChainConfig) *Chain {
	return NewChain(g, 110000, cfg, zap.NewNop())
}

// Scenario 1: empty network, no builders, no proposers — the auction is
// skipped entirely and no block is appended to either chain.
func TestScenarioEmptyNetworkProducesNoBlocks(t *testing.T) {
	g := NewGraph(NewRandSource(1, nil), zap.NewNop())
	g.AssignNeighbours()

	c := newChainForTest(g, ChainConfig{MaxBlockSize: 10, TransactionsPerSlot: 100, MEVFraction: 0.5})
	require.NoError(t, c.StepSlot())
	require.Empty(t, c.PBSBlocks)
	require.Empty(t, c.POSBlocks)
}

// Scenario 2: one builder, one proposer, no attackers — every block has
// exactly maxBlockSize transactions once the mempool has enough volume,
// the builder id is fixed, and bid stays within [0, blockValue].
func TestScenarioSingleBuilderProposerFullBlocks(t *testing.T) {
	g := NewGraph(NewRandSource(2, nil), zap.NewNop())
	g.AddBuilder(1, 5, 1.0, 0, 100)
	g.AddProposer(2, 5, 1.0)
	g.AssignNeighbours()

	c := newChainForTest(g, ChainConfig{MaxBlockSize: 10, TransactionsPerSlot: 100, MEVFraction: 0.5})

	var totalGas, totalIncludedGas float64
	var includedCount int
	const slots = 500
	for i := 0; i < slots; i++ {
		require.NoError(t, c.StepSlot())
	}
	require.Len(t, c.PBSBlocks, slots)
	for _, b := range c.PBSBlocks {
		require.Len(t, b.Transactions, 10)
		require.Equal(t, int64(1), b.BuilderID)
		require.GreaterOrEqual(t, b.Bid, 0.0)
		require.LessOrEqual(t, b.Bid, b.BlockValue)
		for _, tx := range b.Transactions {
			totalIncludedGas += tx.Gas
			includedCount++
		}
	}
	meanIncluded := totalIncludedGas / float64(includedCount)

	// Compare against the mean gas of everything the generator produced:
	// gas-greedy selection should never do worse than the population mean.
	gen := NewTransactionGenerator(NewRandSource(2, nil), 0, 0.5)
	const n = 5000
	for i := 0; i < n; i++ {
		totalGas += gen.Next().Gas
	}
	meanAll := totalGas / float64(n)
	require.GreaterOrEqual(t, meanIncluded, meanAll)
}

// Scenario 3: five plain builders, one proposer, uniform tie-break — no
// builder should win systematically more or less often than its peers.
func TestScenarioFiveBuildersNoSystematicBias(t *testing.T) {
	g := NewGraph(NewRandSource(3, nil), zap.NewNop())
	for i := 1; i <= 5; i++ {
		g.AddBuilder(int64(i), 5, 1.0, 0, 100)
	}
	g.AddProposer(6, 5, 1.0)
	g.AssignNeighbours()

	c := newChainForTest(g, ChainConfig{MaxBlockSize: 10, TransactionsPerSlot: 1000, MEVFraction: 0.5})

	wins := map[int64]int{}
	const slots = 100
	for i := 0; i < slots; i++ {
		require.NoError(t, c.StepSlot())
		wins[c.PBSBlocks[len(c.PBSBlocks)-1].BuilderID]++
	}

	for id := int64(1); id <= 5; id++ {
		freq := float64(wins[id]) / float64(slots)
		require.GreaterOrEqual(t, freq, 0.05, "builder %d win frequency too low: %v", id, wins)
		require.LessOrEqual(t, freq, 0.50, "builder %d win frequency too high: %v", id, wins)
	}
}

// Scenario 4: AttackerBuilders and plain builders mixed with 50% MEV —
// sandwiches should land in a meaningful fraction of blocks, and
// attacker-authored chaff should only ever show up in an AttackerBuilder's
// own block.
func TestScenarioAttackerBuildersProduceSandwiches(t *testing.T) {
	g := NewGraph(NewRandSource(4, nil), zap.NewNop())
	for i := 1; i <= 5; i++ {
		g.AddAttackerBuilder(int64(i), 8, 1.0, 0, 100)
	}
	for i := 6; i <= 10; i++ {
		g.AddBuilder(int64(i), 8, 1.0, 0, 100)
	}
	g.AddProposer(11, 8, 1.0)
	g.AssignNeighbours()

	c := newChainForTest(g, ChainConfig{MaxBlockSize: 10, TransactionsPerSlot: 100, MEVFraction: 0.5})

	sandwichBlocks := 0
	const slots = 500
	for i := 0; i < slots; i++ {
		require.NoError(t, c.StepSlot())
		block := c.PBSBlocks[len(c.PBSBlocks)-1]

		hasSandwich := false
		for j, tx := range block.Transactions {
			if tx.IsFiller() && tx.ID > 0 && j+1 < len(block.Transactions) {
				hasSandwich = true
			}
		}
		if hasSandwich {
			sandwichBlocks++
		}

		if !isAttackerBuilderID(block.BuilderID) {
			for _, tx := range block.Transactions {
				require.False(t, tx.IsFiller(), "filler transaction %d present in non-attacker-builder block %d", tx.ID, block.BuilderID)
			}
		}
	}
	require.GreaterOrEqual(t, float64(sandwichBlocks)/float64(slots), 0.10)
}

func isAttackerBuilderID(id int64) bool { return id >= 1 && id <= 5 }

// Scenario 5: a ProposerAttackerBuilder self-deals whenever its own block
// value beats the best external bid.
func TestScenarioProposerAttackerBuilderSelfDeals(t *testing.T) {
	g := NewGraph(NewRandSource(5, nil), zap.NewNop())
	pab := g.AddProposerAttackerBuilder(1, 8, 1.0, 0, 100)
	for i := 2; i <= 6; i++ {
		g.AddBuilder(int64(i), 8, 1.0, 0, 100)
	}
	g.AssignNeighbours()

	c := newChainForTest(g, ChainConfig{MaxBlockSize: 10, TransactionsPerSlot: 100, MEVFraction: 0.5})

	// Whenever the self-dealing condition holds this round, the finalised
	// block must carry pab's own id and its own block value as the bid.
	// Whether the condition ever fires in a given 200-slot run depends on
	// the random draw, so this only checks the conditional property —
	// see TestRunAuctionSelfDealingOverwritesExternalWinner in
	// proposer_test.go for a deterministic exercise of the same branch.
	for i := 0; i < 200; i++ {
		require.NoError(t, c.StepSlot())
		block := c.PBSBlocks[len(c.PBSBlocks)-1]
		if block.ProposerID != pab.ID {
			continue
		}
		maxExternal := 0.0
		for id, bid := range block.AllBids {
			if id == pab.ID {
				continue
			}
			if bid > maxExternal {
				maxExternal = bid
			}
		}
		if block.AllBlockValues[pab.ID] > maxExternal {
			require.Equal(t, pab.ID, block.BuilderID)
			require.Equal(t, block.AllBlockValues[pab.ID], block.Bid)
		}
	}
}

// Scenario 6: after 200 slots no bid history exceeds BidHistoryCapacity,
// and every builder that lost at least BidHistoryCapacity slots holds
// exactly the winning bids of its last BidHistoryCapacity lost slots,
// oldest first.
func TestScenarioBidHistorySaturates(t *testing.T) {
	g := NewGraph(NewRandSource(6, nil), zap.NewNop())
	for i := 1; i <= 3; i++ {
		g.AddBuilder(int64(i), 5, 1.0, 0, 100)
	}
	g.AddProposer(4, 5, 1.0)
	g.AssignNeighbours()

	c := newChainForTest(g, ChainConfig{MaxBlockSize: 10, TransactionsPerSlot: 300, MEVFraction: 0.5})

	for i := 0; i < 200; i++ {
		require.NoError(t, c.StepSlot())
	}

	for _, b := range g.Builders {
		require.LessOrEqual(t, len(b.Builder.Bids), BidHistoryCapacity)

		var lost []float64
		for _, blk := range c.PBSBlocks {
			if blk.BuilderID != b.ID {
				lost = append(lost, blk.Bid)
			}
		}
		if len(lost) >= BidHistoryCapacity {
			require.Equal(t, lost[len(lost)-BidHistoryCapacity:], b.Builder.Bids)
		}
	}
}

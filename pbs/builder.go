package pbs

import "sort"

// BuildBlockDefault runs the gas-maximizing assembly strategy: sort the
// mempool descending by gas, take the top maxBlockSize transactions, and
// set blockValue to their gas sum. The resulting block is stored as the
// builder's current block and a snapshot of the mempool at assembly time
// is kept as lastMempool.
func (g *Graph) BuildBlockDefault(p *Participant, maxBlockSize int) {
	sorted := sortedByGasDesc(p.Mempool.Slice())

	block := NewBlock(p.ID)
	n := maxBlockSize
	if n > len(sorted) {
		n = len(sorted)
	}
	for i := 0; i < n; i++ {
		block.Transactions = append(block.Transactions, sorted[i])
		block.BlockValue += sorted[i].Gas
	}

	p.Builder.BlockValue = block.BlockValue
	p.Builder.CurrBlock = block
	p.Builder.LastMempool = p.Mempool.Clone()
}

func sortedByGasDesc(txs []*Transaction) []*Transaction {
	sort.Slice(txs, func(i, j int) bool { return txs[i].Gas > txs[j].Gas })
	return txs
}

func sortedByMEVDesc(txs []*Transaction) []*Transaction {
	out := make([]*Transaction, len(txs))
	copy(out, txs)
	sort.Slice(out, func(i, j int) bool { return out[i].MEV > out[j].MEV })
	return out
}

// CalculatedBid computes and stores the builder's bid for its current
// block. With no bid history (cold start) the bid is drawn uniformly in
// [blockValue*MinBidFrac, blockValue]; otherwise it runs the depth-bounded
// lookahead search in FindOptimalBid.
func (g *Graph) CalculatedBid(p *Participant) {
	b := p.Builder
	if b.BlockValue <= 0 {
		b.CurrBid = 0
		return
	}
	if len(b.Bids) == 0 {
		lo := b.BlockValue * b.MinBidFrac
		b.CurrBid = lo + g.rng.Float64()*(b.BlockValue-lo)
		return
	}
	bid, _ := g.FindOptimalBid(p, b.Depth, b.Discount, b.BidIncrement)
	b.CurrBid = bid
}

// calculateUtility is the payoff of winning with yourBid against the
// current block value: blockValue - yourBid.
func calculateUtility(blockValue, yourBid float64) float64 {
	return blockValue - yourBid
}

// ExpectedUtility runs numSim Monte-Carlo trials of a single-shot
// auction: each trial draws an opponent bid from testBids via the
// entropy stream (skipping indices out of range), and scores yourBid as
// blockValue-yourBid if it beats the draw, else 0. Returns the mean.
func (g *Graph) ExpectedUtility(p *Participant, yourBid float64, testBids []float64) float64 {
	if len(testBids) == 0 {
		return 0
	}
	b := p.Builder
	total := 0.0
	for i := 0; i < b.NumSim; i++ {
		idx := g.rng.NextEntropyIndex(len(testBids))
		opp := testBids[idx]
		if yourBid > opp {
			total += calculateUtility(b.BlockValue, yourBid)
		}
	}
	return total / float64(b.NumSim)
}

// ExpectedFutureUtility is the lookahead expected utility at depth d: at
// d=0 it's ExpectedUtility; otherwise it's the optimal utility one depth
// shallower plus this depth's single-shot expected utility for yourBid.
//
// discount is accepted and threaded through so the interface matches the
// original's signature, but it is never applied to the recursive term —
// see the TODO below and the open-question note in DESIGN.md.
func (g *Graph) ExpectedFutureUtility(p *Participant, yourBid float64, depth int, discount, bidIncrement float64, testBids []float64) float64 {
	if depth == 0 {
		return g.ExpectedUtility(p, yourBid, testBids)
	}
	_, futureUtility := g.FindOptimalBid(p, depth-1, discount, bidIncrement)
	// TODO: discount is accepted but not applied to futureUtility; no
	// observed revision of the original implements a decay here either.
	return futureUtility + g.ExpectedUtility(p, yourBid, testBids)
}

// FindOptimalBid runs the two-phase search over the bid domain
// [0, blockValue]: an ascent scan in increments of bidIncrement keeping
// the highest single-shot expected utility against the builder's bid
// history, then — only if depth > 0 — a descent from the ascent optimum
// evaluating the depth-d lookahead utility against bids∪{b}, stopping on
// the first non-improvement.
func (g *Graph) FindOptimalBid(p *Participant, depth int, discount, bidIncrement float64) (bid, utility float64) {
	b := p.Builder
	if b.BlockValue <= 0 {
		return 0, 0
	}

	optimalBid := 0.0
	maxUtility := 0.0
	lo := b.BlockValue * b.MinBidFrac
	for candidate := lo; candidate <= b.BlockValue; candidate += bidIncrement {
		trial := g.ExpectedUtility(p, candidate, b.Bids)
		if trial > maxUtility {
			maxUtility = trial
			optimalBid = candidate
		}
	}

	for candidate := optimalBid; candidate >= 0 && depth != 0; candidate -= bidIncrement {
		testBids := append(append([]float64{}, b.Bids...), candidate)
		trial := g.ExpectedFutureUtility(p, candidate, depth, discount, bidIncrement, testBids)
		if trial > maxUtility {
			maxUtility = trial
			optimalBid = candidate
		} else {
			break
		}
	}

	return optimalBid, maxUtility
}

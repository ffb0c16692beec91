// Package pbs implements a discrete-event simulator of Proposer-Builder
// Separation (PBS) block production against a vanilla proposer-only (POS)
// baseline, with a sandwich-attacking adversary population.
//
// Here is the full flow of one slot through the core:
//
// Chain.StepSlot injects new transactions, then:
//   - Graph.PropagateTransactions gossips mempool contents across node edges
//   - Graph.Attack, for every attacker, scans its builder neighbours and injects sandwiches
//   - every Builder assembles a block from its local mempool and computes a bid
//   - Graph.RunAuction, for the slot's proposer, picks the winning block
//   - Graph.ClearMempools purges included transactions from every mempool
//   - Graph.RemoveFailedAttack / ClearAttacks, for every attacker, clean up stale chaff
//
// An independent POS sibling block is recorded alongside the PBS block for
// revenue comparison; it never participates in mempool clearing.
package pbs

const (
	// DefaultMaxBlockSize is the transaction capacity of an assembled block.
	DefaultMaxBlockSize = 10

	// BidHistoryCapacity bounds a builder's FIFO history of observed
	// winning bids.
	BidHistoryCapacity = 100

	// DefaultNumSimulations is the Monte-Carlo trial count used by
	// Graph.ExpectedUtility when a builder does not override it.
	DefaultNumSimulations = 100

	// DefaultMinBidFrac is the lower bound (as a fraction of block value)
	// of the bid domain scanned by FindOptimalBid.
	DefaultMinBidFrac = 0.0

	// DefaultBidIncrement is the step size used by the ascent/descent
	// search in FindOptimalBid.
	DefaultBidIncrement = 0.5

	// DefaultDiscountFactor is threaded through the lookahead utility
	// functions but never applied — see the TODO in builder.go.
	DefaultDiscountFactor = 0.9

	// DefaultMEVThreshold is the multiple of gas a transaction's MEV must
	// exceed for Graph.Attack to target it.
	DefaultMEVThreshold = 3.0

	// MEVFractionDefault is the fraction of generated transactions that
	// carry nonzero MEV.
	MEVFractionDefault = 0.5

	// DefaultTransactionsPerSlot is the per-slot injection count
	// Chain.StepSlot uses when its TransactionsPerSlot is zero or negative.
	DefaultTransactionsPerSlot = 100
)

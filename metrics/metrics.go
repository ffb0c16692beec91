// Package metrics contains process-wide counters and histograms for
// simulated auction outcomes.
package metrics

import "github.com/VictoriaMetrics/metrics"

var (
	pbsBlocksProduced = metrics.NewCounter("pbs_blocks_produced_total")
	posBlocksProduced = metrics.NewCounter("pos_blocks_produced_total")
	slotsAborted      = metrics.NewCounter("slots_aborted_total")
	sandwichAttempts  = metrics.NewCounter("sandwich_attempts_total")
	sandwichSuccesses = metrics.NewCounter("sandwich_successes_total")

	winningBid        = metrics.NewHistogram("winning_bid_value")
	winningBlockValue = metrics.NewHistogram("winning_block_value")
)

// IncPBSBlocksProduced records one finalised PBS block.
func IncPBSBlocksProduced() {
	pbsBlocksProduced.Inc()
}

// IncPOSBlocksProduced records one recorded POS control block.
func IncPOSBlocksProduced() {
	posBlocksProduced.Inc()
}

// IncSlotsAborted records a slot skipped due to an invariant violation.
func IncSlotsAborted() {
	slotsAborted.Inc()
}

// IncSandwichAttempts records one attacker-authored front/back injection.
func IncSandwichAttempts() {
	sandwichAttempts.Inc()
}

// IncSandwichSuccesses records one sandwich whose front/victim/back
// triple landed adjacent in a finalised block.
func IncSandwichSuccesses() {
	sandwichSuccesses.Inc()
}

// ObserveWinningBid records the winning bid value of a finalised block.
func ObserveWinningBid(v float64) {
	winningBid.Update(v)
}

// ObserveWinningBlockValue records the block value of a finalised block.
func ObserveWinningBlockValue(v float64) {
	winningBlockValue.Update(v)
}

// WinCounts tracks each builder's per-slot win frequency by id, for
// driver-side bias reporting (testable property: no builder should win
// systematically more or less often than its peers under uniform
// tie-break).
type WinCounts struct {
	counts map[int64]int
	total  int
}

// NewWinCounts allocates an empty tracker.
func NewWinCounts() *WinCounts {
	return &WinCounts{counts: make(map[int64]int)}
}

// Record increments builderID's win count.
func (w *WinCounts) Record(builderID int64) {
	w.counts[builderID]++
	w.total++
}

// Frequency returns builderID's share of recorded wins, or 0 if it has
// never won and nothing has been recorded yet.
func (w *WinCounts) Frequency(builderID int64) float64 {
	if w.total == 0 {
		return 0
	}
	return float64(w.counts[builderID]) / float64(w.total)
}

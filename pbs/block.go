package pbs

// Block is an ordered sequence of transactions produced by one builder.
// Order is observable and load-bearing: a sandwich attack only captures
// its MEV if the front/victim/back triple lands adjacent in this slice.
//
// A Block is created once per slot and never mutated after the auction
// that produced it closes.
type Block struct {
	Transactions []*Transaction
	BuilderID    int64
	ProposerID   int64
	Bid          float64
	BlockValue   float64

	// AllBids and AllBlockValues snapshot every builder's bid and block
	// value at the moment the auction that produced this block closed.
	AllBids        map[int64]float64
	AllBlockValues map[int64]float64
}

// NewBlock allocates an empty block owned by builderID.
func NewBlock(builderID int64) *Block {
	return &Block{
		BuilderID:      builderID,
		AllBids:        make(map[int64]float64),
		AllBlockValues: make(map[int64]float64),
	}
}

// IndexOf returns the position of t in the block's transaction list by
// pointer identity, or -1 if absent.
func (b *Block) IndexOf(t *Transaction) int {
	for i, bt := range b.Transactions {
		if bt == t {
			return i
		}
	}
	return -1
}

// Contains reports whether the block includes t, compared by identity.
func (b *Block) Contains(t *Transaction) bool {
	return b.IndexOf(t) >= 0
}

// ContainsID reports whether any transaction in the block carries id.
// Used to match attacker-authored front/back/target transactions, which
// may be compared by id across distinct objects inserted into different
// mempools.
func (b *Block) ContainsID(id int64) bool {
	for _, t := range b.Transactions {
		if t.ID == id {
			return true
		}
	}
	return false
}

// NonFillerCount returns the number of transactions in the block that
// are not a zero-value sandwich filler — used by the adaptive injection
// driver behavior to size the next slot's transaction batch.
func (b *Block) NonFillerCount() int {
	n := 0
	for _, t := range b.Transactions {
		if !t.IsFiller() {
			n++
		}
	}
	return n
}

// Snapshot returns a shallow copy of b suitable for recording into a
// second chain under a different ProposerID. The same builder's current
// block can back both the PBS winner and the POS sibling in one slot —
// Snapshot is what keeps the POS side's ProposerID overlay from mutating
// the already-finalised PBS block underneath it.
func (b *Block) Snapshot() *Block {
	clone := *b
	clone.Transactions = append([]*Transaction{}, b.Transactions...)
	return &clone
}

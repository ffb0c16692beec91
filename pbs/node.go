package pbs

// Kind discriminates a Participant's role. Capabilities are modeled as
// optional state structs on Participant rather than via inheritance: the
// original source composes Proposer+Builder and Proposer+AttackerBuilder
// through diamond inheritance over a Node base, which Go has no
// equivalent for. A tagged variant plus nil-checked capability structs
// gets the same "one entity, several roles" shape without the cycles
// that come from the original's shared_ptr back-references.
type Kind uint8

const (
	KindPlain Kind = iota
	KindBuilder
	KindAttacker
	KindProposer
	KindProposerBuilder
	KindAttackerBuilder
	KindProposerAttackerBuilder
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindBuilder:
		return "builder"
	case KindAttacker:
		return "attacker"
	case KindProposer:
		return "proposer"
	case KindProposerBuilder:
		return "proposer_builder"
	case KindAttackerBuilder:
		return "attacker_builder"
	case KindProposerAttackerBuilder:
		return "proposer_attacker_builder"
	default:
		return "unknown"
	}
}

// IsBuilder reports whether k carries builder capability.
func (k Kind) IsBuilder() bool {
	switch k {
	case KindBuilder, KindProposerBuilder, KindAttackerBuilder, KindProposerAttackerBuilder:
		return true
	default:
		return false
	}
}

// IsAttacker reports whether k carries attacker capability.
func (k Kind) IsAttacker() bool {
	switch k {
	case KindAttacker, KindAttackerBuilder, KindProposerAttackerBuilder:
		return true
	default:
		return false
	}
}

// IsProposer reports whether k carries proposer capability.
func (k Kind) IsProposer() bool {
	switch k {
	case KindProposer, KindProposerBuilder, KindProposerAttackerBuilder:
		return true
	default:
		return false
	}
}

// Node is the identity and adjacency shared by every participant. Nodes
// live in a Graph's flat arena for the simulation's duration and are
// never destroyed; adjacency is stored as indices into that arena
// (non-owning back-references) rather than shared pointers, which is
// what eliminates the original's reference cycles.
type Node struct {
	ID             int64
	Connections    int     // target degree
	Characteristic float64 // gossip acceptance probability, in [0,1]

	Adjacency []int // indices into the owning Graph's Participants slice
	Mempool   Mempool
}

// Degree returns the node's current adjacency count.
func (n *Node) Degree() int {
	return len(n.Adjacency)
}

// BuilderState is the capability state of a block-assembling,
// bid-computing participant. Present on Participant whenever Kind.IsBuilder().
type BuilderState struct {
	Bids         []float64 // FIFO history of observed winning bids, capacity BidHistoryCapacity
	Depth        int       // bid-lookahead horizon
	NumSim       int       // Monte-Carlo trial count for ExpectedUtility
	MinBidFrac   float64
	BidIncrement float64
	Discount     float64 // accepted, not applied — see builder.go

	CurrBlock   *Block
	CurrBid     float64
	BlockValue  float64
	LastMempool Mempool
}

// AttackerState is the capability state of a sandwich-injecting
// participant. Present on Participant whenever Kind.IsAttacker().
type AttackerState struct {
	MEVThreshold float64 // default DefaultMEVThreshold

	// TargetTransactions, FrontTransactions, BackTransactions are
	// co-indexed: position i describes one sandwich attempt.
	TargetTransactions []*Transaction
	FrontTransactions  []*Transaction
	BackTransactions   []*Transaction
	attackCounter      int64

	seen *targetSet // O(1) already-targeted membership, cleared with clearAttacks
}

// ProposerState is the capability state of an auction-driving
// participant. Present on Participant whenever Kind.IsProposer().
type ProposerState struct {
	ProposedBlock *Block
}

// Participant is one node in the graph, carrying whichever capability
// states its Kind requires. Fields left nil are roles the node does not
// play; operations on a capability check the Kind before dereferencing.
type Participant struct {
	Node
	Kind Kind

	Builder  *BuilderState
	Attacker *AttackerState
	Proposer *ProposerState
}

// NewParticipant allocates a node of the given kind with freshly
// initialized capability state.
func NewParticipant(id int64, connections int, characteristic float64, kind Kind) *Participant {
	p := &Participant{
		Node: Node{
			ID:             id,
			Connections:    connections,
			Characteristic: characteristic,
			Mempool:        NewMempool(),
		},
		Kind: kind,
	}
	if kind.IsBuilder() {
		p.Builder = &BuilderState{
			MinBidFrac:   DefaultMinBidFrac,
			BidIncrement: DefaultBidIncrement,
			Discount:     DefaultDiscountFactor,
			NumSim:       DefaultNumSimulations,
		}
	}
	if kind.IsAttacker() {
		p.Attacker = &AttackerState{
			MEVThreshold: DefaultMEVThreshold,
			seen:         newTargetSet(),
		}
	}
	if kind.IsProposer() {
		p.Proposer = &ProposerState{}
	}
	return p
}

// UpdateBids appends bid to the builder's FIFO history, evicting the
// oldest entry once the history exceeds BidHistoryCapacity.
func (p *Participant) UpdateBids(bid float64) {
	b := p.Builder
	b.Bids = append(b.Bids, bid)
	if len(b.Bids) > BidHistoryCapacity {
		b.Bids = b.Bids[len(b.Bids)-BidHistoryCapacity:]
	}
}

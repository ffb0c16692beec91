package pbs

import (
	"context"

	"go.uber.org/zap"

	"github.com/mev-research/pbs-sim/workerpool"
)

// Graph is the flat arena of participants for one simulation run. It
// plays the role the original's NodeFactory plays — node creation,
// neighbour assignment, gossip, and mempool bookkeeping — but holds
// nodes by value-backed pointer in one slice and refers to them by
// index rather than by shared_ptr, so there is no reference cycle to
// reason about.
type Graph struct {
	Participants []*Participant
	Builders     []*Participant
	Attackers    []*Participant
	Proposers    []*Participant

	log *zap.Logger
	rng Source
}

// NewGraph allocates an empty graph. log may be nil, in which case a
// no-op logger is used.
func NewGraph(rng Source, log *zap.Logger) *Graph {
	if log == nil {
		log = zap.NewNop()
	}
	return &Graph{log: log, rng: rng}
}

// AddNode registers a plain, non-participating node.
func (g *Graph) AddNode(id int64, connections int, characteristic float64) *Participant {
	p := NewParticipant(id, connections, characteristic, KindPlain)
	g.Participants = append(g.Participants, p)
	return p
}

// AddBuilder registers a gas-maximizing builder.
func (g *Graph) AddBuilder(id int64, connections int, characteristic float64, depth, numSim int) *Participant {
	p := NewParticipant(id, connections, characteristic, KindBuilder)
	g.configureBuilder(p, depth, numSim)
	g.Participants = append(g.Participants, p)
	g.Builders = append(g.Builders, p)
	return p
}

// AddAttacker registers a sandwich-injecting, non-building attacker.
func (g *Graph) AddAttacker(id int64, connections int, characteristic float64) *Participant {
	p := NewParticipant(id, connections, characteristic, KindAttacker)
	g.Participants = append(g.Participants, p)
	g.Attackers = append(g.Attackers, p)
	return p
}

// AddAttackerBuilder registers a builder whose assembly strategy
// interleaves self-authored sandwiches.
func (g *Graph) AddAttackerBuilder(id int64, connections int, characteristic float64, depth, numSim int) *Participant {
	p := NewParticipant(id, connections, characteristic, KindAttackerBuilder)
	g.configureBuilder(p, depth, numSim)
	g.Participants = append(g.Participants, p)
	g.Builders = append(g.Builders, p)
	g.Attackers = append(g.Attackers, p)
	return p
}

// AddProposer registers a proposer with no building capability.
func (g *Graph) AddProposer(id int64, connections int, characteristic float64) *Participant {
	p := NewParticipant(id, connections, characteristic, KindProposer)
	g.Participants = append(g.Participants, p)
	g.Proposers = append(g.Proposers, p)
	return p
}

// AddProposerBuilder registers a participant that both builds blocks and
// may prefer its own block when proposing (the self-dealing clause).
func (g *Graph) AddProposerBuilder(id int64, connections int, characteristic float64, depth, numSim int) *Participant {
	p := NewParticipant(id, connections, characteristic, KindProposerBuilder)
	g.configureBuilder(p, depth, numSim)
	g.Participants = append(g.Participants, p)
	g.Builders = append(g.Builders, p)
	g.Proposers = append(g.Proposers, p)
	return p
}

// AddProposerAttackerBuilder registers a participant combining all three
// capabilities: sandwich-maximizing assembly, self-dealing proposing.
func (g *Graph) AddProposerAttackerBuilder(id int64, connections int, characteristic float64, depth, numSim int) *Participant {
	p := NewParticipant(id, connections, characteristic, KindProposerAttackerBuilder)
	g.configureBuilder(p, depth, numSim)
	g.Participants = append(g.Participants, p)
	g.Builders = append(g.Builders, p)
	g.Attackers = append(g.Attackers, p)
	g.Proposers = append(g.Proposers, p)
	return p
}

func (g *Graph) configureBuilder(p *Participant, depth, numSim int) {
	p.Builder.Depth = depth
	if numSim > 0 {
		p.Builder.NumSim = numSim
	}
}

// AssignNeighbours wires adjacency across every participant: greedy,
// order-dependent, and not guaranteed to bring every node to its target
// degree. For each node in turn, candidates (every other node not
// already adjacent) are shuffled and walked until the node's target
// degree is met or candidates run out; a candidate is only accepted if
// its own degree is still below its own target.
func (g *Graph) AssignNeighbours() {
	n := len(g.Participants)
	for i, node := range g.Participants {
		candidates := make([]int, 0, n-1)
		for j := range g.Participants {
			if j == i || g.isAdjacent(i, j) {
				continue
			}
			candidates = append(candidates, j)
		}
		g.rng.Shuffle(len(candidates), func(a, b int) {
			candidates[a], candidates[b] = candidates[b], candidates[a]
		})
		for _, j := range candidates {
			if node.Degree() >= node.Connections {
				break
			}
			other := g.Participants[j]
			if other.Degree() >= other.Connections {
				continue
			}
			node.Adjacency = append(node.Adjacency, j)
			other.Adjacency = append(other.Adjacency, i)
		}
	}
}

func (g *Graph) isAdjacent(i, j int) bool {
	for _, k := range g.Participants[i].Adjacency {
		if k == j {
			return true
		}
	}
	return false
}

// PropagateTransactions runs one relaxation pass: for every node, for
// every neighbour, for every transaction the neighbour knows about that
// the node doesn't, draw r uniformly from 0..100 and insert it into the
// node's mempool if r <= 100*characteristic of the receiving node. This is
// not a fixpoint, but insertions land in place, so a transaction a node
// has just received can be picked up by a node visited later in the same
// pass and travel more than one hop per call.
//
// The receiving node's characteristic gates acceptance (not the sender's):
// "this node accepts gossip with probability c" is the semantically
// consistent reading, per the design note on propagation gating.
func (g *Graph) PropagateTransactions() {
	for _, node := range g.Participants {
		for _, j := range node.Adjacency {
			neighbour := g.Participants[j]
			for t := range neighbour.Mempool {
				if node.Mempool.Contains(t) {
					continue
				}
				if g.rng.Intn(101) <= int(100*node.Characteristic) {
					node.Mempool.Insert(t)
				}
			}
		}
	}
}

// PropagateTransactionsParallel is the concurrent variant: the node list
// is partitioned across workers, and each worker only ever writes into
// the mempools of the nodes in its own partition. Neighbours' mempools
// are read from snapshots taken before the workers start, so no worker
// reads a map another worker is writing. Because propagation has no
// fixpoint requirement — only "what's visible this round" — that
// read/write split needs no locking, and each call moves a transaction
// at most one hop.
func (g *Graph) PropagateTransactionsParallel(ctx context.Context) error {
	snapshots := make([][]*Transaction, len(g.Participants))
	for i, p := range g.Participants {
		snapshots[i] = p.Mempool.Slice()
	}
	return workerpool.Run(ctx, g.log, g.Participants, func(_ context.Context, node *Participant) error {
		for _, j := range node.Adjacency {
			for _, t := range snapshots[j] {
				if node.Mempool.Contains(t) {
					continue
				}
				if g.rng.Intn(101) <= int(100*node.Characteristic) {
					node.Mempool.Insert(t)
				}
			}
		}
		return nil
	})
}

// assembleAndBid fans block assembly and bid computation out across
// workers, one partition of builders per worker: each builder's writes
// (its own mempool read, currBlock, currBid) are confined to itself, so
// the partitions never touch each other's state and need no locking
// beyond the Source mutex already guarding the shared PRNG. Per the
// concurrency model's first parallel section.
func (g *Graph) assembleAndBid(maxBlockSize int) error {
	return workerpool.Run(context.Background(), g.log, g.Builders, func(_ context.Context, builder *Participant) error {
		if builder.Kind.IsAttacker() {
			g.BuildBlockSandwich(builder, maxBlockSize)
		} else {
			g.BuildBlockDefault(builder, maxBlockSize)
		}
		g.CalculatedBid(builder)
		return nil
	})
}

// AddTransactionToNodes is the sole injection path: if t is not already
// present in any mempool, it's inserted into one uniformly-random node.
func (g *Graph) AddTransactionToNodes(t *Transaction) {
	for _, node := range g.Participants {
		if node.Mempool.Contains(t) {
			return
		}
	}
	if len(g.Participants) == 0 {
		return
	}
	idx := g.rng.Intn(len(g.Participants))
	g.Participants[idx].Mempool.Insert(t)
}

// ClearMempools erases t from every node's mempool. Called once per
// transaction included in a finalised block.
func (g *Graph) ClearMempools(t *Transaction) {
	for _, node := range g.Participants {
		node.Mempool.Remove(t)
	}
}

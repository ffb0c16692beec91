package pbs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAttackAndBuilder(rng Source) (*Graph, *Participant, *Participant) {
	g := NewGraph(rng, zap.NewNop())
	attacker := g.AddAttacker(1, 5, 1.0)
	builder := g.AddBuilder(2, 5, 1.0, 0, 100)
	attacker.Adjacency = []int{1}
	builder.Adjacency = []int{0}
	return g, attacker, builder
}

func TestAttackInjectsFrontBackAboveThreshold(t *testing.T) {
	g, attacker, builder := newAttackAndBuilder(NewRandSource(1, nil))
	victim := NewTransaction(10, 5, 20) // mev=20 > 3*gas=15
	builder.Mempool.Insert(victim)

	g.Attack(attacker)

	a := attacker.Attacker
	require.Len(t, a.TargetTransactions, 1)
	require.Len(t, a.FrontTransactions, 1)
	require.Len(t, a.BackTransactions, 1)
	require.Same(t, victim, a.TargetTransactions[0])

	require.True(t, builder.Mempool.Contains(a.FrontTransactions[0]))
	require.True(t, builder.Mempool.Contains(a.BackTransactions[0]))
	require.Equal(t, victim.Gas+0.01, a.FrontTransactions[0].Gas)
	require.Equal(t, victim.Gas-0.01, a.BackTransactions[0].Gas)
	require.Greater(t, a.FrontTransactions[0].ID, int64(0))
	require.Less(t, a.BackTransactions[0].ID, int64(0))
}

func TestAttackSkipsBelowThresholdAndAlreadyTargeted(t *testing.T) {
	g, attacker, builder := newAttackAndBuilder(NewRandSource(2, nil))
	lowMEV := NewTransaction(11, 10, 20) // mev=20 not > 3*gas=30
	builder.Mempool.Insert(lowMEV)

	g.Attack(attacker)
	require.Empty(t, attacker.Attacker.TargetTransactions)

	highMEV := NewTransaction(12, 1, 10)
	builder.Mempool.Insert(highMEV)
	g.Attack(attacker)
	require.Len(t, attacker.Attacker.TargetTransactions, 1)

	g.Attack(attacker) // second call: same target, no duplicate entry
	require.Len(t, attacker.Attacker.TargetTransactions, 1)
}

func TestAttackNeverTouchesNonBuilderNeighbours(t *testing.T) {
	g := NewGraph(NewRandSource(3, nil), zap.NewNop())
	attacker := g.AddAttacker(1, 5, 1.0)
	plain := g.AddNode(2, 5, 1.0)
	attacker.Adjacency = []int{1}
	plain.Adjacency = []int{0}

	victim := NewTransaction(10, 1, 10)
	plain.Mempool.Insert(victim)

	g.Attack(attacker)
	require.Empty(t, attacker.Attacker.TargetTransactions)
	require.Len(t, plain.Mempool, 1) // untouched beyond the original victim
}

func TestClearAttacksPurgesFrontBackAndResetsSequences(t *testing.T) {
	g, attacker, builder := newAttackAndBuilder(NewRandSource(4, nil))
	victim := NewTransaction(10, 5, 20)
	builder.Mempool.Insert(victim)
	g.Attack(attacker)

	front := attacker.Attacker.FrontTransactions[0]
	back := attacker.Attacker.BackTransactions[0]

	g.ClearAttacks(attacker)

	require.Empty(t, attacker.Attacker.TargetTransactions)
	require.Empty(t, attacker.Attacker.FrontTransactions)
	require.Empty(t, attacker.Attacker.BackTransactions)
	require.False(t, builder.Mempool.Contains(front))
	require.False(t, builder.Mempool.Contains(back))
}

func TestRemoveFailedAttackScrubsUnpairedChaff(t *testing.T) {
	g, attacker, builder := newAttackAndBuilder(NewRandSource(5, nil))
	victim := NewTransaction(10, 5, 20)
	builder.Mempool.Insert(victim)
	g.Attack(attacker)

	front := attacker.Attacker.FrontTransactions[0]
	back := attacker.Attacker.BackTransactions[0]

	// Simulate a block where only the front landed, not the back and not
	// the victim (the sandwich never executed) — both should be purged.
	block := NewBlock(builder.ID)
	block.Transactions = append(block.Transactions, front)

	g.RemoveFailedAttack(attacker, block)

	require.False(t, builder.Mempool.Contains(front))
	require.False(t, builder.Mempool.Contains(back))
}

package pbs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGraph(seed int64, n int) *Graph {
	g := NewGraph(NewRandSource(seed, nil), zap.NewNop())
	for i := 0; i < n; i++ {
		g.AddNode(int64(i+1), 3, 1.0)
	}
	return g
}

func TestAssignNeighboursSymmetricAndBounded(t *testing.T) {
	g := newTestGraph(1, 20)
	g.AssignNeighbours()

	for i, node := range g.Participants {
		require.LessOrEqual(t, node.Degree(), node.Connections)
		for _, j := range node.Adjacency {
			require.Contains(t, g.Participants[j].Adjacency, i, "edge %d->%d not symmetric", i, j)
		}
	}
}

func TestAddTransactionToNodesSingleInjectionNoDuplicate(t *testing.T) {
	g := newTestGraph(2, 5)
	tx := NewTransaction(1, 10, 0)

	g.AddTransactionToNodes(tx)
	count := 0
	for _, n := range g.Participants {
		if n.Mempool.Contains(tx) {
			count++
		}
	}
	require.Equal(t, 1, count)

	g.AddTransactionToNodes(tx) // already present globally: no-op
	count = 0
	for _, n := range g.Participants {
		if n.Mempool.Contains(tx) {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestClearMempoolsErasesEverywhere(t *testing.T) {
	g := newTestGraph(3, 4)
	tx := NewTransaction(1, 10, 0)
	for _, n := range g.Participants {
		n.Mempool.Insert(tx)
	}
	g.ClearMempools(tx)
	for _, n := range g.Participants {
		require.False(t, n.Mempool.Contains(tx))
	}
}

func TestPropagateTransactionsReceiverCharacteristicGatesAcceptance(t *testing.T) {
	g := NewGraph(NewRandSource(4, nil), zap.NewNop())
	sender := g.AddNode(1, 1, 1.0)
	receiver := g.AddNode(2, 1, 1.0) // characteristic 1.0: always accepts
	g.AssignNeighbours()
	require.Contains(t, sender.Adjacency, 1)

	tx := NewTransaction(1, 5, 0)
	sender.Mempool.Insert(tx)

	g.PropagateTransactions()
	require.True(t, receiver.Mempool.Contains(tx))
}

func TestPropagateTransactionsZeroCharacteristicNeverAccepts(t *testing.T) {
	g := NewGraph(NewRandSource(5, nil), zap.NewNop())
	sender := g.AddNode(1, 1, 1.0)
	receiver := g.AddNode(2, 1, 0.0)
	g.AssignNeighbours()

	tx := NewTransaction(1, 5, 0)
	sender.Mempool.Insert(tx)

	for i := 0; i < 20; i++ {
		g.PropagateTransactions()
	}
	require.False(t, receiver.Mempool.Contains(tx))
}

func TestPropagateTransactionsParallelMatchesSerialOwnership(t *testing.T) {
	g := newTestGraph(6, 30)
	g.AssignNeighbours()
	for i, n := range g.Participants {
		n.Mempool.Insert(NewTransaction(int64(i+1), float64(i), 0))
	}

	err := g.PropagateTransactionsParallel(context.Background())
	require.NoError(t, err)
}

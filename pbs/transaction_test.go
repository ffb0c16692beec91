package pbs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransactionGeneratorMonotonicIDs(t *testing.T) {
	rng := NewRandSource(1, nil)
	gen := NewTransactionGenerator(rng, 100, 0.5)

	batch := gen.NextBatch(50)
	seen := make(map[int64]struct{}, len(batch))
	for i, tx := range batch {
		require.Equal(t, int64(100+i), tx.ID)
		_, dup := seen[tx.ID]
		require.False(t, dup, "duplicate id %d", tx.ID)
		seen[tx.ID] = struct{}{}
		require.GreaterOrEqual(t, tx.Gas, 0.0)
		require.Less(t, tx.Gas, 100.0)
		require.GreaterOrEqual(t, tx.MEV, 0.0)
	}
}

func TestTransactionGeneratorMEVFraction(t *testing.T) {
	rng := NewRandSource(7, nil)
	gen := NewTransactionGenerator(rng, 0, 0.5)

	nonZero := 0
	const n = 4000
	for i := 0; i < n; i++ {
		if gen.Next().MEV > 0 {
			nonZero++
		}
	}
	frac := float64(nonZero) / float64(n)
	require.InDelta(t, 0.5, frac, 0.05)
}

func TestAttackerTransactionIDScheme(t *testing.T) {
	front := attackerTransactionID(3, 7, true)
	back := attackerTransactionID(3, 7, false)
	require.Equal(t, int64(3007), front)
	require.Equal(t, int64(-3007), back)
}

func TestIsFiller(t *testing.T) {
	require.True(t, NewTransaction(1, 0, 0).IsFiller())
	require.False(t, NewTransaction(1, 1, 0).IsFiller())
	require.False(t, NewTransaction(1, 0, 1).IsFiller())
}

package pbs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextEntropyIndexSkipsOutOfRangeValues(t *testing.T) {
	src := NewRandSource(1, []float64{5, 2, 9, 1})
	// bound=3: only 2 and 1 qualify, in that order; 5 and 9 are skipped.
	require.Equal(t, 2, src.NextEntropyIndex(3))
	require.Equal(t, 1, src.NextEntropyIndex(3))
}

func TestNextEntropyIndexWrapsOnExhaustion(t *testing.T) {
	src := NewRandSource(1, []float64{0, 1})
	require.Equal(t, 0, src.NextEntropyIndex(5))
	require.Equal(t, 1, src.NextEntropyIndex(5))
	require.Equal(t, 0, src.NextEntropyIndex(5)) // wrapped back to the start
}

func TestNextEntropyIndexFallsBackToRNGWhenStreamEmpty(t *testing.T) {
	src := NewRandSource(1, nil)
	idx := src.NextEntropyIndex(10)
	require.GreaterOrEqual(t, idx, 0)
	require.Less(t, idx, 10)
}

func TestRandSourceConcurrentAccessDoesNotRace(t *testing.T) {
	src := NewRandSource(1, nil)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = src.Float64()
				_ = src.Intn(10)
				_ = src.NextEntropyIndex(10)
			}
		}()
	}
	wg.Wait()
}
